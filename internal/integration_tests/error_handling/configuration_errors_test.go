package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyard/stackplan/internal/resolve"
	"github.com/halcyard/stackplan/internal/testutil"
)

const minimalCatalog = `
template "network" {
  version = "1.0.0"

  parameter "address_space" {
    type = string
  }

  output "vnet_id" {
    type = string
  }

  resource "azurerm_virtual_network" "main" {}
}

template "key_vault" {
  version = "1.2.0"

  output "vault_uri" {
    type = string
  }

  resource "azurerm_key_vault" "main" {}
}
`

func TestErrorHandling_MissingBundleParameterFailsRun(t *testing.T) {
	t.Parallel()

	result := testutil.RunResolution(t, map[string]string{
		"templates/catalog.hcl": minimalCatalog,
		"workload/main.hcl": `
parameter "deploy_sql" {
  type = bool
}
`,
	})

	require.Error(t, result.Err)
	var missing *resolve.MissingParameterError
	require.ErrorAs(t, result.Err, &missing)
	assert.Equal(t, "deploy_sql", missing.Parameter)
	assert.Empty(t, result.PlanJSON, "no plan may be written on a configuration error")
}

func TestErrorHandling_BareReferenceToExcludedModuleFailsRun(t *testing.T) {
	t.Parallel()

	result := testutil.RunResolution(t, map[string]string{
		"templates/catalog.hcl": minimalCatalog,
		"workload/main.hcl": `
module "key_vault" "secrets" {
  enabled    = false
  parameters {}
}

output "vault_uri" {
  value = module.secrets.vault_uri
}
`,
	})

	require.Error(t, result.Err)
	var inconsistency *resolve.ExclusionInconsistencyError
	require.ErrorAs(t, result.Err, &inconsistency)
	assert.Equal(t, "secrets", inconsistency.Excluded)
	assert.Empty(t, result.PlanJSON)
}

func TestErrorHandling_DependencyCycleFailsRun(t *testing.T) {
	t.Parallel()

	result := testutil.RunResolution(t, map[string]string{
		"templates/catalog.hcl": minimalCatalog,
		"workload/main.hcl": `
module "network" "alpha" {
  depends_on = ["beta"]
  parameters {
    address_space = "10.0.0.0/16"
  }
}

module "network" "beta" {
  depends_on = ["alpha"]
  parameters {
    address_space = "10.1.0.0/16"
  }
}
`,
	})

	require.Error(t, result.Err)
	var cycle *resolve.CyclicDependencyError
	require.ErrorAs(t, result.Err, &cycle)
	assert.Equal(t, []string{"alpha", "beta"}, cycle.Members)
}

func TestErrorHandling_InvalidWorkloadHCLIsRejected(t *testing.T) {
	t.Parallel()

	result := testutil.RunResolution(t, map[string]string{
		"templates/catalog.hcl": minimalCatalog,
		"workload/main.hcl":     `module "network" "core" {`,
	})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to parse")
}

func TestErrorHandling_UnknownBundleKeyFailsRun(t *testing.T) {
	t.Parallel()

	result := testutil.RunResolution(t, map[string]string{
		"templates/catalog.hcl": minimalCatalog,
		"workload/main.hcl": `
parameter "environment" {
  type    = string
  default = "dev"
}
`,
		"params.json": `{"enviroment": "prod"}`,
	})

	require.Error(t, result.Err)
	var undefined *resolve.UndefinedReferenceError
	require.ErrorAs(t, result.Err, &undefined)
	assert.Equal(t, "enviroment", undefined.Ref)
}

func TestErrorHandling_CatalogIdentifierViolationFailsRun(t *testing.T) {
	t.Parallel()

	result := testutil.RunResolution(t, map[string]string{
		"templates/catalog.hcl": `
template "BadName" {
  version = "1.0.0"

  output "id" {
    type = string
  }
}
`,
		"workload/main.hcl": `
parameter "unused" {
  type    = string
  default = ""
}
`,
	})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "lower_snake_case")
}
