package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/sambabib/dockerfile-gen/pkg/logger"
)

// Detection methods recorded in an Analysis.
const (
	MethodVermin     = "vermin"
	MethodSyntaxScan = "syntax-scan"
	MethodDefault    = "default"
)

const (
	defaultVerminPath    = "vermin"
	defaultVerminTimeout = 10 * time.Second

	// baselineVersion is reported when no version-gated feature is found.
	baselineVersion = "3.7"
	// defaultVersion is reported when the source cannot be scanned at all.
	defaultVersion = "3.11"
)

// VersionDetector infers the minimum Python version a source file requires.
// It prefers vermin when available and degrades to a syntax feature scan,
// then to a fixed default. Detection never fails outright.
type VersionDetector struct {
	// VerminPath is the vermin binary to invoke. Defaults to "vermin".
	VerminPath string
	// Timeout bounds the vermin subprocess. Defaults to 10s.
	Timeout time.Duration
}

// NewVersionDetector returns a detector with default vermin settings.
func NewVersionDetector() *VersionDetector {
	return &VersionDetector{
		VerminPath: defaultVerminPath,
		Timeout:    defaultVerminTimeout,
	}
}

// Detect returns the minimum required version and the method that produced
// it. When scanImports is true, statically resolvable local imports from the
// same directory are included in the vermin invocation.
func (d *VersionDetector) Detect(ctx context.Context, path string, scanImports bool) (string, string) {
	files := []string{path}
	if scanImports {
		files = append(files, findLocalImports(path)...)
	}

	res, err := runVermin(ctx, d.verminPath(), d.timeout(), files)
	if err == nil {
		if v := res.preferred(); v != "" {
			return v, MethodVermin
		}
		logger.Debugf("vermin reported no minimum version for %s", path)
	} else {
		logger.Warnf("vermin detection unavailable (%v), falling back to syntax scan", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("could not read %s for syntax scan: %v", path, err)
		return defaultVersion, MethodDefault
	}
	return scanVersionFloor(string(content))
}

func (d *VersionDetector) verminPath() string {
	if d.VerminPath != "" {
		return d.VerminPath
	}
	return defaultVerminPath
}

func (d *VersionDetector) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return defaultVerminTimeout
}

// featureRules maps version-gated syntax features to the interpreter floor
// they require. Every rule is evaluated and the maximum floor wins, so a file
// mixing a walrus operator with a match statement reports 3.10.
var featureRules = []struct {
	feature string
	floor   string
	match   func(src *pySource, raw string) bool
}{
	{"match statement", "3.10", hasMatchStatement},
	{"positional-only parameters", "3.8", hasPositionalOnlyParams},
	{"walrus operator", "3.8", hasWalrusOperator},
	{"self-documenting f-string", "3.8", hasSelfDocFString},
}

// scanVersionFloor inspects source syntax for version-gated features. When
// the source does not even scan lexically, the conservative default version
// is reported instead.
func scanVersionFloor(content string) (string, string) {
	src, err := scanPySource(content)
	if err != nil {
		logger.Warnf("syntax scan failed (%v), using default version %s", err, defaultVersion)
		return defaultVersion, MethodDefault
	}

	floor := semver.MustParse(baselineVersion)
	floorStr := baselineVersion
	for _, rule := range featureRules {
		if !rule.match(src, content) {
			continue
		}
		logger.Debugf("found %s, requires Python %s", rule.feature, rule.floor)
		v, err := semver.NewVersion(rule.floor)
		if err != nil {
			continue
		}
		if v.GreaterThan(floor) {
			floor = v
			floorStr = rule.floor
		}
	}
	return floorStr, MethodSyntaxScan
}

var (
	matchStmtPattern   = regexp.MustCompile(`^\s*match\s+.+:\s*$`)
	caseStmtPattern    = regexp.MustCompile(`^\s*case\s+.+:\s*$`)
	defLinePattern     = regexp.MustCompile(`^\s*(?:async\s+)?def\s+\w+\s*\(`)
	selfDocFStrPattern = regexp.MustCompile(`f["'].*\{[^}]+=\}`)
)

func hasMatchStatement(src *pySource, _ string) bool {
	seenMatch := false
	for _, line := range src.logical {
		if matchStmtPattern.MatchString(line) {
			seenMatch = true
			continue
		}
		if seenMatch && caseStmtPattern.MatchString(line) {
			return true
		}
	}
	return false
}

func hasWalrusOperator(src *pySource, _ string) bool {
	for _, line := range src.logical {
		if strings.Contains(line, ":=") {
			return true
		}
	}
	return false
}

func hasPositionalOnlyParams(src *pySource, _ string) bool {
	for _, line := range src.logical {
		if !defLinePattern.MatchString(line) {
			continue
		}
		open := strings.Index(line, "(")
		if open < 0 {
			continue
		}
		params, ok := parenContents(line[open:])
		if !ok {
			continue
		}
		for _, param := range splitTopLevel(params) {
			if strings.TrimSpace(param) == "/" {
				return true
			}
		}
	}
	return false
}

// hasSelfDocFString runs over the raw text rather than the scanned lines:
// the {expr=} form lives inside string literals, which the scanner blanks.
func hasSelfDocFString(_ *pySource, raw string) bool {
	for _, line := range strings.Split(raw, "\n") {
		if selfDocFStrPattern.MatchString(line) {
			return true
		}
	}
	return false
}

// parenContents returns the text between the leading "(" of s and its
// matching ")".
func parenContents(s string) (string, bool) {
	depth := 0
	for i, c := range s {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return s[1:i], true
			}
		}
	}
	return "", false
}

// splitTopLevel splits on commas that are not nested inside brackets.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, c := range s {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// findLocalImports resolves absolute from-imports to Python files in the
// same directory as path. Only shallow, statically resolvable modules are
// returned; anything else is left to vermin's own discovery.
func findLocalImports(path string) []string {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	src, err := scanPySource(string(content))
	if err != nil {
		logger.Debugf("skipping local import scan for %s: %v", path, err)
		return nil
	}

	dir := filepath.Dir(path)
	var files []string
	for _, line := range src.logical {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "from ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || strings.HasPrefix(fields[1], ".") {
			continue
		}
		rel := strings.ReplaceAll(fields[1], ".", string(filepath.Separator))
		if p := filepath.Join(dir, rel+".py"); fileExists(p) {
			files = append(files, p)
		}
		if p := filepath.Join(dir, rel, "__init__.py"); fileExists(p) {
			files = append(files, p)
		}
	}
	return files
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
