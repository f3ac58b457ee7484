package dockerfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sambabib/dockerfile-gen/pkg/analyzer"
)

// compilePackages are imports that typically require a native toolchain to
// install.
var compilePackages = map[string]struct{}{
	"numpy":       {},
	"pandas":      {},
	"pillow":      {},
	"psycopg2":    {},
	"mysqlclient": {},
	"lxml":        {},
}

// defaultPorts holds the port exposed per web application type.
var defaultPorts = map[analyzer.AppType]int{
	analyzer.AppFlask:     5000,
	analyzer.AppDjango:    8000,
	analyzer.AppFastAPI:   8000,
	analyzer.AppStreamlit: 8501,
}

// Generate assembles the Dockerfile for an analysis result. Output is fully
// determined by the input: the same analysis always yields byte-identical
// text.
func Generate(a *analyzer.Analysis) string {
	var lines []string

	lines = append(lines, "# Use official Python runtime as base image")
	lines = append(lines, fmt.Sprintf("# Python version %s detected via %s", a.PythonVersion, a.DetectionMethod))
	lines = append(lines, fmt.Sprintf("FROM python:%s-slim", a.PythonVersion))
	lines = append(lines, "")

	lines = append(lines, "# Set working directory")
	lines = append(lines, "WORKDIR /app")
	lines = append(lines, "")

	lines = append(lines, "# Prevent Python from writing pyc files and buffering stdout/stderr")
	lines = append(lines, "ENV PYTHONDONTWRITEBYTECODE=1")
	lines = append(lines, "ENV PYTHONUNBUFFERED=1")
	lines = append(lines, "")

	if needsSystemDeps(a) {
		lines = append(lines, "# Install system dependencies")
		lines = append(lines, "RUN apt-get update && apt-get install -y \\")
		lines = append(lines, "    gcc \\")
		lines = append(lines, "    && rm -rf /var/lib/apt/lists/*")
		lines = append(lines, "")
	}

	// Declared dependencies take precedence over inferred imports; the two
	// install forms are mutually exclusive.
	if len(a.Requirements) > 0 {
		lines = append(lines, "# Copy requirements file")
		lines = append(lines, "COPY requirements.txt .")
		lines = append(lines, "")
		lines = append(lines, "# Install Python dependencies")
		lines = append(lines, "RUN pip install --no-cache-dir -r requirements.txt")
		lines = append(lines, "")
	} else if len(a.Imports) > 0 {
		packages := append([]string(nil), a.Imports...)
		sort.Strings(packages)
		lines = append(lines, "# Install Python dependencies")
		lines = append(lines, fmt.Sprintf("RUN pip install --no-cache-dir %s", strings.Join(packages, " ")))
		lines = append(lines, "")
	}

	lines = append(lines, "# Copy application code")
	lines = append(lines, "COPY . .")
	lines = append(lines, "")

	if port, ok := defaultPorts[a.AppType]; ok {
		lines = append(lines, "# Expose port")
		lines = append(lines, fmt.Sprintf("EXPOSE %d", port))
		lines = append(lines, "")
	}

	lines = append(lines, "# Run the application")
	lines = append(lines, fmt.Sprintf("CMD %s", command(a)))

	return strings.Join(lines, "\n")
}

func needsSystemDeps(a *analyzer.Analysis) bool {
	for _, imp := range a.Imports {
		if _, ok := compilePackages[imp]; ok {
			return true
		}
	}
	return false
}

// command renders the CMD instruction for the application type.
func command(a *analyzer.Analysis) string {
	switch a.AppType {
	case analyzer.AppFlask:
		return fmt.Sprintf(`["python", "%s"]`, a.Filename)
	case analyzer.AppDjango:
		return `["python", "manage.py", "runserver", "0.0.0.0:8000"]`
	case analyzer.AppFastAPI:
		module := strings.TrimSuffix(a.Filename, ".py")
		return fmt.Sprintf(`["uvicorn", "%s:app", "--host", "0.0.0.0", "--port", "8000"]`, module)
	case analyzer.AppStreamlit:
		return fmt.Sprintf(`["streamlit", "run", "%s", "--server.port=8501", "--server.address=0.0.0.0"]`, a.Filename)
	default:
		if a.IsEntryPoint {
			return fmt.Sprintf(`["python", "%s"]`, a.Filename)
		}
		return `["python", "-c", "print(\"Application ready\")"]`
	}
}
