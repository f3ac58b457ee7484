package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrSourceNotFound is returned when the file to analyze does not exist.
var ErrSourceNotFound = errors.New("source file not found")

// Analysis captures everything inferred about a Python source file. It is
// built fresh per file and carries no reference back to the file contents.
type Analysis struct {
	Imports         []string `json:"imports"`                  // sorted, standard library excluded
	Requirements    []string `json:"requirements"`             // declared dependencies, file order
	PythonVersion   string   `json:"python_version"`           // "major.minor"
	DetectionMethod string   `json:"version_detection_method"` // vermin, syntax-scan or default
	AppType         AppType  `json:"app_type"`
	IsEntryPoint    bool     `json:"is_entry_point"`
	Filename        string   `json:"filename"`
}

// HasImport reports whether the import set contains name.
func (a *Analysis) HasImport(name string) bool {
	for _, imp := range a.Imports {
		if imp == name {
			return true
		}
	}
	return false
}

var entryPointPattern = regexp.MustCompile(`if\s+__name__\s*==\s*["']__main__["']`)

// Analyzer runs the full analysis pipeline over a single Python file.
type Analyzer struct {
	// Versions performs minimum-version detection.
	Versions *VersionDetector
	// ScanImports extends version detection to same-directory local imports.
	ScanImports bool
}

// New returns an Analyzer with default version detection settings.
func New() *Analyzer {
	return &Analyzer{Versions: NewVersionDetector()}
}

// Analyze reads and analyzes the Python file at path. A missing file is the
// only fatal condition; every downstream step degrades instead of failing.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*Analysis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := string(content)

	imports := ExtractImports(text)
	version, method := a.Versions.Detect(ctx, path, a.ScanImports)

	requirements, err := ReadRequirements(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Imports:         imports,
		Requirements:    requirements,
		PythonVersion:   version,
		DetectionMethod: method,
		AppType:         ClassifyAppType(imports),
		IsEntryPoint:    entryPointPattern.MatchString(text),
		Filename:        filepath.Base(path),
	}, nil
}
