// Package plan defines the realization plan: the fully-resolved, ordered
// description of what an external materialization engine should apply. The
// plan is pure data; producing it is the resolver's job and applying it is
// explicitly somebody else's.
package plan

import (
	"encoding/json"
	"fmt"
	"io"
)

// FormatVersion identifies the plan document layout for downstream tooling.
const FormatVersion = 1

// Value is one resolved value in the plan. A value is either known (resolved
// to a concrete literal at plan time) or deferred (it depends on an output
// that only exists after materialization). Deferred values carry their
// provenance reference when the binding was a direct output reference.
type Value struct {
	Known bool
	Raw   json.RawMessage
	Ref   string
}

// KnownValue builds a concrete plan value from pre-encoded JSON.
func KnownValue(raw json.RawMessage) Value {
	return Value{Known: true, Raw: raw}
}

// DeferredValue builds a plan value that will only exist after
// materialization. ref may be empty for composite expressions.
func DeferredValue(ref string) Value {
	return Value{Ref: ref}
}

// valueJSON is the wire form of Value.
type valueJSON struct {
	Value    json.RawMessage `json:"value,omitempty"`
	Deferred bool            `json:"deferred,omitempty"`
	Ref      string          `json:"ref,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Known {
		return json.Marshal(valueJSON{Value: v.Raw})
	}
	return json.Marshal(valueJSON{Deferred: true, Ref: v.Ref})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var wire valueJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	v.Known = !wire.Deferred
	v.Raw = wire.Value
	v.Ref = wire.Ref
	return nil
}

// Resource identifies one opaque target resource a module will declare.
type Resource struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Module is one realized module instance in dependency order.
type Module struct {
	Name       string            `json:"name"`
	Template   string            `json:"template"`
	Version    string            `json:"version"`
	Parameters map[string]Value  `json:"parameters"`
	Outputs    map[string]string `json:"outputs"`
	Resources  []Resource        `json:"resources,omitempty"`
	DependsOn  []string          `json:"depends_on,omitempty"`
}

// ExcludedModule records a module whose inclusion predicate evaluated false,
// together with the sentinel outputs its consumers were given.
type ExcludedModule struct {
	Name     string                     `json:"name"`
	Template string                     `json:"template"`
	Outputs  map[string]json.RawMessage `json:"outputs"`
}

// Plan is the resolver's complete product. Resolving the same composition
// with the same parameter bundle always yields a byte-identical plan.
type Plan struct {
	FormatVersion int                        `json:"format_version"`
	Fingerprint   string                     `json:"fingerprint,omitempty"`
	Parameters    map[string]json.RawMessage `json:"parameters"`
	Modules       []*Module                  `json:"modules"`
	Excluded      []*ExcludedModule          `json:"excluded,omitempty"`
	Outputs       map[string]Value           `json:"outputs,omitempty"`
}

// Encode writes the plan as indented JSON, fingerprint included.
func (p *Plan) Encode(w io.Writer) error {
	if err := p.Seal(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return nil
}
