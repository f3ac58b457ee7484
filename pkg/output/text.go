package output

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sambabib/dockerfile-gen/pkg/analyzer"
)

// PrintTextReport prints the analysis summary in a tabular text format.
func PrintTextReport(a *analyzer.Analysis) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "FIELD\tVALUE")
	fmt.Fprintln(w, "-----\t-----")
	fmt.Fprintf(w, "File\t%s\n", a.Filename)
	fmt.Fprintf(w, "Python version\t%s (via %s)\n", a.PythonVersion, a.DetectionMethod)
	fmt.Fprintf(w, "App type\t%s\n", a.AppType)
	fmt.Fprintf(w, "Entry point\t%t\n", a.IsEntryPoint)
	fmt.Fprintf(w, "Imports\t%s\n", orNone(strings.Join(a.Imports, ", ")))
	fmt.Fprintf(w, "Declared deps\t%d\n", len(a.Requirements))

	w.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
