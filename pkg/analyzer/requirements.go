package analyzer

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const requirementsFile = "requirements.txt"

// ReadRequirements reads a requirements.txt colocated with the analyzed
// source. Blank lines and comment lines are dropped; the rest is returned in
// file order. A missing file is not an error and yields an empty list.
func ReadRequirements(dir string) ([]string, error) {
	f, err := os.Open(filepath.Join(dir, requirementsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", requirementsFile, err)
	}
	defer f.Close()

	var reqs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reqs = append(reqs, line)
	}
	if err := scanner.Err(); err != nil {
		return reqs, fmt.Errorf("error reading %s: %w", requirementsFile, err)
	}
	return reqs, nil
}
