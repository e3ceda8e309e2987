package model

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// valueForMessage renders a cty value compactly for error messages.
func valueForMessage(val cty.Value) string {
	if val.IsNull() {
		return "null"
	}
	buf, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return fmt.Sprintf("(%s)", val.Type().FriendlyName())
	}
	return string(buf)
}

// valuesForMessage renders a set of cty values as a bracketed list.
func valuesForMessage(vals []cty.Value) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, valueForMessage(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatValue renders a cty value for user-facing messages. It is the
// exported form of the helper used by this package's own errors.
func FormatValue(val cty.Value) string {
	return valueForMessage(val)
}

// FormatValues renders a list of cty values for user-facing messages.
func FormatValues(vals []cty.Value) string {
	return valuesForMessage(vals)
}
