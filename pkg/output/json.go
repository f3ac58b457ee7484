package output

import (
	"encoding/json"

	"github.com/sambabib/dockerfile-gen/pkg/analyzer"
)

// GenerateJSONReport converts an analysis result to indented JSON.
func GenerateJSONReport(a *analyzer.Analysis) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}
