package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sambabib/dockerfile-gen/pkg/logger"
)

// stdlibModules holds common standard library module names that must never be
// reported as external dependencies.
var stdlibModules = map[string]struct{}{
	"os": {}, "sys": {}, "json": {}, "math": {}, "re": {}, "time": {},
	"datetime": {}, "random": {}, "collections": {}, "itertools": {},
	"functools": {}, "pathlib": {}, "typing": {}, "logging": {},
	"unittest": {}, "argparse": {}, "subprocess": {}, "threading": {},
	"multiprocessing": {}, "asyncio": {}, "io": {}, "pickle": {}, "csv": {},
	"sqlite3": {}, "http": {}, "urllib": {}, "email": {}, "html": {},
	"xml": {}, "hashlib": {}, "base64": {}, "shutil": {}, "glob": {},
	"tempfile": {}, "warnings": {}, "abc": {}, "dataclasses": {}, "enum": {},
	"decimal": {}, "fractions": {}, "statistics": {}, "secrets": {},
	"uuid": {}, "copy": {}, "pprint": {}, "textwrap": {}, "codecs": {},
	"struct": {}, "array": {},
}

// importLinePattern is the line-oriented fallback used when the source does
// not scan cleanly.
var importLinePattern = regexp.MustCompile(`^\s*(?:from\s+(\S+)|import\s+(\S+))`)

// ExtractImports returns the sorted set of top-level externally sourced
// module names referenced by the source. Standard library names are filtered
// out. The result depends only on the source text.
func ExtractImports(content string) []string {
	found := make(map[string]struct{})

	src, err := scanPySource(content)
	if err != nil {
		logger.Debugf("import extraction fell back to line matching: %v", err)
		for _, line := range strings.Split(content, "\n") {
			m := importLinePattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			module := m[1]
			if module == "" {
				module = m[2]
			}
			addImport(found, module)
		}
	} else {
		for _, line := range src.logical {
			collectImports(found, line)
		}
	}

	out := make([]string, 0, len(found))
	for name := range found {
		if _, ok := stdlibModules[name]; ok {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectImports(found map[string]struct{}, line string) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "import "):
		for _, clause := range strings.Split(line[len("import "):], ",") {
			fields := strings.Fields(clause)
			if len(fields) > 0 {
				addImport(found, fields[0])
			}
		}
	case strings.HasPrefix(line, "from "):
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			addImport(found, fields[1])
		}
	}
}

func addImport(found map[string]struct{}, module string) {
	// relative imports have no top-level package name
	if module == "" || strings.HasPrefix(module, ".") {
		return
	}
	head, _, _ := strings.Cut(module, ".")
	if head == "" {
		return
	}
	found[head] = struct{}{}
}
