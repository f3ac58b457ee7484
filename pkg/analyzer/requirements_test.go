package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRequirements(t *testing.T) {
	dir := t.TempDir()
	content := `# web framework
flask==3.0.0

requests>=2.31
  numpy
# trailing comment
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte(content), 0644))

	reqs, err := ReadRequirements(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"flask==3.0.0", "requests>=2.31", "numpy"}, reqs)
}

func TestReadRequirements_MissingFile(t *testing.T) {
	reqs, err := ReadRequirements(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, reqs)
}
