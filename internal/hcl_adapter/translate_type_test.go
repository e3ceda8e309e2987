package hcl_adapter

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), "failed to parse expression %q: %s", src, diags.Error())
	return expr
}

func TestTypeExprToCtyType_Primitives(t *testing.T) {
	ctx := context.Background()

	cases := map[string]cty.Type{
		"string": cty.String,
		"number": cty.Number,
		"bool":   cty.Bool,
		"any":    cty.DynamicPseudoType,
	}

	for src, want := range cases {
		got, err := TypeExprToCtyType(ctx, parseExpr(t, src))
		require.NoError(t, err, "type %q", src)
		assert.True(t, want.Equals(got), "type %q: got %s", src, got.FriendlyName())
	}
}

func TestTypeExprToCtyType_Collections(t *testing.T) {
	ctx := context.Background()

	got, err := TypeExprToCtyType(ctx, parseExpr(t, "list(string)"))
	require.NoError(t, err)
	assert.True(t, cty.List(cty.String).Equals(got))

	got, err = TypeExprToCtyType(ctx, parseExpr(t, "map(number)"))
	require.NoError(t, err)
	assert.True(t, cty.Map(cty.Number).Equals(got))

	got, err = TypeExprToCtyType(ctx, parseExpr(t, "set(bool)"))
	require.NoError(t, err)
	assert.True(t, cty.Set(cty.Bool).Equals(got))

	_, err = TypeExprToCtyType(ctx, parseExpr(t, "list(any)"))
	assert.ErrorContains(t, err, "collection types cannot contain type 'any'")
}

func TestTypeExprToCtyType_Objects(t *testing.T) {
	ctx := context.Background()

	got, err := TypeExprToCtyType(ctx, parseExpr(t, "object({ name = string, count = number })"))
	require.NoError(t, err)
	want := cty.Object(map[string]cty.Type{
		"name":  cty.String,
		"count": cty.Number,
	})
	assert.True(t, want.Equals(got), "got %s", got.FriendlyName())

	got, err = TypeExprToCtyType(ctx, parseExpr(t, "object({})"))
	require.NoError(t, err)
	assert.True(t, cty.Object(map[string]cty.Type{}).Equals(got))
}

func TestTypeExprToCtyType_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := TypeExprToCtyType(ctx, parseExpr(t, "integer"))
	assert.ErrorContains(t, err, `unknown primitive type "integer"`)

	_, err = TypeExprToCtyType(ctx, parseExpr(t, "tuple(string)"))
	assert.ErrorContains(t, err, "unknown type constructor")

	_, err = TypeExprToCtyType(ctx, parseExpr(t, "list(string, number)"))
	assert.ErrorContains(t, err, "exactly one argument")
}

func TestTypeExprToCtyType_NilDefaultsToAny(t *testing.T) {
	got, err := TypeExprToCtyType(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, cty.DynamicPseudoType.Equals(got))
}
