package main

import "github.com/sambabib/dockerfile-gen/cmd"

func main() {
	cmd.Execute()
}
