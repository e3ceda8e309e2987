// Package bundle loads parameter-value bundles: the concrete values bound to
// a workload's parameter schema for one (tenant, environment) pair. Bundles
// are plain JSON documents, authored per deployment context and consumed
// as-is; the resolver never writes them.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Bundle holds the raw parameter values for one deployment context. Values
// carry whatever type the JSON literal implied; conversion to the declared
// parameter types happens during resolution, where the workload schema is
// known.
type Bundle struct {
	// Source is the file the bundle was loaded from, empty for the
	// implicit empty bundle.
	Source string

	// Context is the bundle's (tenant, environment) label, derived from
	// the file name by convention: <tenant>.<environment>.json.
	Context string

	Values map[string]cty.Value
}

// Empty returns a bundle with no values, used when a workload's parameters
// are expected to resolve entirely from defaults.
func Empty() *Bundle {
	return &Bundle{Values: map[string]cty.Value{}}
}

// Load reads a JSON bundle file. The document must be a single flat object;
// nested values are allowed (they map to object-typed parameters) but the
// top level must map parameter names to values.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter bundle %s: %w", path, err)
	}

	impliedType, err := ctyjson.ImpliedType(data)
	if err != nil {
		return nil, fmt.Errorf("invalid parameter bundle %s: %w", path, err)
	}
	if !impliedType.IsObjectType() {
		return nil, fmt.Errorf("invalid parameter bundle %s: top level must be a JSON object", path)
	}

	val, err := ctyjson.Unmarshal(data, impliedType)
	if err != nil {
		return nil, fmt.Errorf("invalid parameter bundle %s: %w", path, err)
	}

	bundle := &Bundle{
		Source:  path,
		Context: contextFromFilename(path),
		Values:  map[string]cty.Value{},
	}
	for name, v := range val.AsValueMap() {
		bundle.Values[name] = v
	}

	return bundle, nil
}

// contextFromFilename extracts the "<tenant>.<environment>" label from a
// bundle path, or returns the bare file stem when the convention is not
// followed.
func contextFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
