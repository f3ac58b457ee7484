package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_FlaskApp(t *testing.T) {
	dir := t.TempDir()
	source := `from flask import Flask
import requests
import os

app = Flask(__name__)

@app.route("/")
def index():
    return "ok"

if __name__ == "__main__":
    app.run()
`
	path := filepath.Join(dir, "app.py")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("flask==3.0.0\nrequests\n"), 0644))

	a := &Analyzer{Versions: newOfflineDetector()}
	result, err := a.Analyze(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"flask", "requests"}, result.Imports)
	assert.Equal(t, []string{"flask==3.0.0", "requests"}, result.Requirements)
	assert.Equal(t, "3.7", result.PythonVersion)
	assert.Equal(t, MethodSyntaxScan, result.DetectionMethod)
	assert.Equal(t, AppFlask, result.AppType)
	assert.True(t, result.IsEntryPoint)
	assert.Equal(t, "app.py", result.Filename)
	assert.True(t, result.HasImport("flask"))
	assert.False(t, result.HasImport("os"))
}

func TestAnalyze_ScriptWithoutEntryPoint(t *testing.T) {
	dir := t.TempDir()
	source := `import math

def area(r):
    return math.pi * r * r
`
	path := filepath.Join(dir, "geometry.py")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))

	a := &Analyzer{Versions: newOfflineDetector()}
	result, err := a.Analyze(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, result.Imports)
	assert.Empty(t, result.Requirements)
	assert.Equal(t, AppScript, result.AppType)
	assert.False(t, result.IsEntryPoint)
	assert.Equal(t, "geometry.py", result.Filename)
}

func TestAnalyze_MissingFile(t *testing.T) {
	a := &Analyzer{Versions: newOfflineDetector()}
	_, err := a.Analyze(context.Background(), filepath.Join(t.TempDir(), "nope.py"))
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestAnalyze_SingleQuotedEntryPoint(t *testing.T) {
	dir := t.TempDir()
	source := "if __name__ == '__main__':\n    print('hi')\n"
	path := filepath.Join(dir, "run.py")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))

	a := &Analyzer{Versions: newOfflineDetector()}
	result, err := a.Analyze(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, result.IsEntryPoint)
}
