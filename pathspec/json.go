package pathspec

import (
	"encoding/json"
	"fmt"
)

// jsonSpec mirrors the external JSON shape described by the external
// interfaces: {type_indicator, attributes..., parent: {...}|null}.
type jsonSpec struct {
	TypeIndicator string          `json:"type_indicator"`
	Parent        json.RawMessage `json:"parent,omitempty"`
	Attrs         map[string]any  `json:"-"`
}

// Encode serializes a Spec to the external JSON representation. It
// calls MarshalJSON and returns the same result and error.
func Encode(s *Spec) ([]byte, error) {
	return s.MarshalJSON()
}

// Decode parses the external JSON representation, invoking validate
// (typically registry.ValidateAttrs) for every layer so unknown
// attribute names are rejected per layer, not just at the leaf.
func Decode(data []byte, validate func(typeIndicator string, attrs map[string]any, parent *Spec) error) (*Spec, error) {
	return decode(data, validate)
}

func decode(data []byte, validate func(string, map[string]any, *Spec) error) (*Spec, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pathspec: decode: %w", err)
	}

	var typeIndicator string
	if v, ok := raw["type_indicator"]; ok {
		if err := json.Unmarshal(v, &typeIndicator); err != nil {
			return nil, fmt.Errorf("pathspec: decode type_indicator: %w", err)
		}
	}
	delete(raw, "type_indicator")

	var parent *Spec
	if v, ok := raw["parent"]; ok {
		delete(raw, "parent")
		if string(v) != "null" {
			p, err := decode(v, validate)
			if err != nil {
				return nil, err
			}
			parent = p
		}
	}

	attrs := make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, fmt.Errorf("pathspec: decode attribute %q: %w", k, err)
		}
		attrs[k] = normalizeJSONNumber(val)
	}

	if validate != nil {
		if err := validate(typeIndicator, attrs, parent); err != nil {
			return nil, err
		}
	}

	return &Spec{typeIndicator: typeIndicator, parent: parent, attrs: attrs}, nil
}

// normalizeJSONNumber converts JSON's float64 decoding of integral
// attribute values (identifier, inode, offsets, ...) back to int64 so
// Decode(Encode(p)) round-trips through the typed accessors.
func normalizeJSONNumber(v any) any {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	if f == float64(int64(f)) {
		return int64(f)
	}
	return f
}

// MarshalJSON implements json.Marshaler.
func (s *Spec) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.attrs)+2)
	m["type_indicator"] = s.typeIndicator
	for k, v := range s.attrs {
		m[k] = v
	}
	if s.parent != nil {
		parentJSON, err := s.parent.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var parentRaw json.RawMessage = parentJSON
		m["parent"] = parentRaw
	} else {
		m["parent"] = nil
	}
	return json.Marshal(m)
}
