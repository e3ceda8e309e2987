package hcl_adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestModuleRefs(t *testing.T) {
	expr := parseExpr(t, `param.deploy ? module.secrets.vault_uri : module.core.vnet_id`)

	refs := ModuleRefs(expr)
	require.Len(t, refs, 2)
	assert.Equal(t, &ModuleRef{Instance: "secrets", Output: "vault_uri"}, refs[0])
	assert.Equal(t, &ModuleRef{Instance: "core", Output: "vnet_id"}, refs[1])
}

func TestParamRefs(t *testing.T) {
	expr := parseExpr(t, `param.environment == "prod" && param.deploy_sql`)

	names := ParamRefs(expr)
	assert.Equal(t, []string{"environment", "deploy_sql"}, names)
}

func TestBareModuleRef(t *testing.T) {
	t.Run("bare traversal", func(t *testing.T) {
		ref, ok := BareModuleRef(parseExpr(t, "module.core.services_subnet_id"))
		require.True(t, ok)
		assert.Equal(t, "core", ref.Instance)
		assert.Equal(t, "services_subnet_id", ref.Output)
	})

	t.Run("guarded expression is not bare", func(t *testing.T) {
		_, ok := BareModuleRef(parseExpr(t, `param.deploy ? module.core.vnet_id : ""`))
		assert.False(t, ok)
	})

	t.Run("param traversal is not a module ref", func(t *testing.T) {
		_, ok := BareModuleRef(parseExpr(t, "param.environment"))
		assert.False(t, ok)
	})
}

func TestPresentExpr(t *testing.T) {
	assert.Nil(t, PresentExpr(nil))

	// A literal null is how gohcl renders an absent optional attribute.
	assert.Nil(t, PresentExpr(parseExpr(t, "null")))

	assert.NotNil(t, PresentExpr(parseExpr(t, "true")))
	assert.NotNil(t, PresentExpr(parseExpr(t, "param.deploy")))
}

func TestEmptyValue(t *testing.T) {
	cases := []struct {
		ty   cty.Type
		want cty.Value
	}{
		{cty.String, cty.StringVal("")},
		{cty.Number, cty.Zero},
		{cty.Bool, cty.False},
		{cty.List(cty.String), cty.ListValEmpty(cty.String)},
		{cty.Map(cty.Number), cty.MapValEmpty(cty.Number)},
		{cty.Object(map[string]cty.Type{"id": cty.String}), cty.ObjectVal(map[string]cty.Value{"id": cty.StringVal("")})},
	}
	for _, tc := range cases {
		got, err := EmptyValue(tc.ty)
		require.NoError(t, err, "type %s", tc.ty.FriendlyName())
		assert.True(t, tc.want.RawEquals(got), "type %s: got %s", tc.ty.FriendlyName(), got.GoString())
	}

	_, err := EmptyValue(cty.DynamicPseudoType)
	assert.ErrorContains(t, err, "no implicit sentinel")
}
