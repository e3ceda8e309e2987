package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkload(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadWorkload(t *testing.T) {
	dir := writeWorkload(t, map[string]string{
		"main.hcl": `
parameter "deploy_key_vault" {
  type    = bool
  default = false
}

module "network" "core" {
  parameters {
    address_space = "10.0.0.0/16"
  }
}

module "key_vault" "secrets" {
  enabled = param.deploy_key_vault
  version = "~> 1.0"

  parameters {
    subnet_id = module.core.services_subnet_id
  }

  depends_on = ["core"]
}

output "vault_uri" {
  value = param.deploy_key_vault ? module.secrets.vault_uri : ""
}
`,
	})

	workload, err := LoadWorkload(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, workload.Parameters, 1)
	assert.True(t, workload.Parameters["deploy_key_vault"].Optional)

	require.Len(t, workload.Modules, 2)

	core := workload.ModuleByName("core")
	require.NotNil(t, core)
	assert.Equal(t, "network", core.TemplateType)
	assert.Nil(t, core.Enabled, "module without a predicate is always-on")
	assert.Contains(t, core.Arguments, "address_space")

	secrets := workload.ModuleByName("secrets")
	require.NotNil(t, secrets)
	assert.NotNil(t, secrets.Enabled)
	require.NotNil(t, secrets.VersionConstraint)
	assert.Equal(t, []string{"core"}, secrets.DependsOn)

	require.Len(t, workload.Outputs, 1)
	assert.Equal(t, "vault_uri", workload.Outputs[0].Name)
}

func TestLoadWorkload_SpansMultipleFiles(t *testing.T) {
	dir := writeWorkload(t, map[string]string{
		"params.hcl": `
parameter "address_space" {
  type = string
}
`,
		"modules.hcl": `
module "network" "core" {
  parameters {
    address_space = param.address_space
  }
}
`,
	})

	workload, err := LoadWorkload(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, workload.Parameters, 1)
	assert.Len(t, workload.Modules, 1)
}

func TestLoadWorkload_DuplicateInstance(t *testing.T) {
	dir := writeWorkload(t, map[string]string{
		"main.hcl": `
module "network" "core" {
  parameters {}
}

module "storage_account" "core" {
  parameters {}
}
`,
	})

	_, err := LoadWorkload(context.Background(), dir)
	assert.ErrorContains(t, err, "duplicate module instance 'core'")
}

func TestLoadWorkload_InvalidVersionConstraint(t *testing.T) {
	dir := writeWorkload(t, map[string]string{
		"main.hcl": `
module "network" "core" {
  version    = "one point two"
  parameters {}
}
`,
	})

	_, err := LoadWorkload(context.Background(), dir)
	assert.ErrorContains(t, err, "invalid version constraint")
}

func TestLoadWorkload_EmptyDirFails(t *testing.T) {
	_, err := LoadWorkload(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no .hcl workload files found")
}
