package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should see `shouldExit=true` and return a nil error.
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_InvalidWorkload(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A workload file with an HCL syntax error must surface as a loader error.
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(`module "network" "core" {`), 0o600))

	args := []string{"--templates-path", tempDir, filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestRun_WritesPlanToStdout(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	templatesDir := filepath.Join(tempDir, "templates")
	workloadDir := filepath.Join(tempDir, "workload")
	require.NoError(t, os.MkdirAll(templatesDir, 0o755))
	require.NoError(t, os.MkdirAll(workloadDir, 0o755))

	manifest := `
template "network" {
  version = "1.0.0"

  parameter "address_space" {
    type    = string
    default = "10.0.0.0/16"
  }

  output "vnet_id" {
    type = string
  }

  resource "azurerm_virtual_network" "main" {}
}
`
	workload := `
module "network" "core" {
  parameters {}
}
`
	require.NoError(t, os.WriteFile(filepath.Join(templatesDir, "network.hcl"), []byte(manifest), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(workloadDir, "main.hcl"), []byte(workload), 0o600))

	args := []string{"--templates-path", templatesDir, workloadDir}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err)

	var plan map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &plan), "stdout should carry the plan document")
	require.Equal(t, float64(1), plan["format_version"])
	require.NotEmpty(t, plan["fingerprint"])
}
