package plan

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *Plan {
	return &Plan{
		FormatVersion: FormatVersion,
		Parameters: map[string]json.RawMessage{
			"environment": json.RawMessage(`"dev"`),
		},
		Modules: []*Module{
			{
				Name:     "core",
				Template: "network",
				Version:  "1.4.0",
				Parameters: map[string]Value{
					"address_space": KnownValue(json.RawMessage(`"10.0.0.0/16"`)),
				},
				Outputs: map[string]string{"vnet_id": "string"},
				Resources: []Resource{
					{Type: "azurerm_virtual_network", Name: "main"},
				},
			},
			{
				Name:     "secrets",
				Template: "key_vault",
				Version:  "1.2.0",
				Parameters: map[string]Value{
					"subnet_id": DeferredValue("module.core.services_subnet_id"),
				},
				Outputs:   map[string]string{"vault_uri": "string"},
				DependsOn: []string{"core"},
			},
		},
	}
}

func TestValue_JSONRoundTrip(t *testing.T) {
	known, err := json.Marshal(KnownValue(json.RawMessage(`42`)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 42}`, string(known))

	deferred, err := json.Marshal(DeferredValue("module.core.vnet_id"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"deferred": true, "ref": "module.core.vnet_id"}`, string(deferred))

	var decoded Value
	require.NoError(t, json.Unmarshal(deferred, &decoded))
	assert.False(t, decoded.Known)
	assert.Equal(t, "module.core.vnet_id", decoded.Ref)
}

func TestSeal_IsStable(t *testing.T) {
	p := samplePlan()
	require.NoError(t, p.Seal())
	first := p.Fingerprint
	require.NotEmpty(t, first)

	// Sealing again recomputes over the same content.
	require.NoError(t, p.Seal())
	assert.Equal(t, first, p.Fingerprint)

	// Any content change produces a different fingerprint.
	p.Parameters["environment"] = json.RawMessage(`"prod"`)
	require.NoError(t, p.Seal())
	assert.NotEqual(t, first, p.Fingerprint)
}

func TestEncode(t *testing.T) {
	p := samplePlan()

	var buf bytes.Buffer
	require.NoError(t, p.Encode(&buf))

	var decoded Plan
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, FormatVersion, decoded.FormatVersion)
	assert.Equal(t, p.Fingerprint, decoded.Fingerprint)
	require.Len(t, decoded.Modules, 2)
	assert.True(t, decoded.Modules[0].Parameters["address_space"].Known)
	assert.False(t, decoded.Modules[1].Parameters["subnet_id"].Known)

	// Two encodings of the same content are byte-identical.
	var again bytes.Buffer
	require.NoError(t, samplePlan().Encode(&again))
	assert.Equal(t, buf.String(), again.String())
}
