package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/partgrid/internal/cli"
)

func TestRun_InvalidDescription(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	invalidHCL := `
		project "demo" {
			version = "1.0.0"
		// Missing closing brace here
	`
	filePath := filepath.Join(t.TempDir(), "partgrid.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600), "failed to set up test file")

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, errOut, []string{"make", "--file", filePath, "--color", "never"})

	// --- Assert ---
	require.Error(t, runErr, "run() should fail on a malformed description")
	require.Contains(t, runErr.Error(), "failed to load description")
	require.Empty(t, out.String(), "nothing should be emitted for a failed load")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, out, []string{"--help"})

	require.NoError(t, err, "run() should return a nil error for --help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, out, []string{"make", "--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_Make(t *testing.T) {
	t.Parallel()

	desc := `
project "demo" {}
unit "main" {}
bin "demo" {
  deps   = [unit.main]
  native = false
}
`
	filePath := filepath.Join(t.TempDir(), "partgrid.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(desc), 0o600))

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(context.Background(), out, errOut, []string{"make", "--file", filePath, "--color", "never"})

	require.NoError(t, err)
	require.Contains(t, out.String(), ".DEFAULT_GOAL := all")
	require.Contains(t, out.String(), "main.cmo")
}
