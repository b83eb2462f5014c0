package block

import (
	"encoding/json"
	"fmt"
)

// Data is a block's type-specific payload. It is stored in canonical JSON
// form: objects are map[string]any, arrays []any and numbers float64.
type Data map[string]any

// InlineStyle is one styled range of a block's text, as exchanged with the
// text-editing engine.
type InlineStyle struct {
	Offset int            `json:"offset" yaml:"offset"`
	Length int            `json:"length" yaml:"length"`
	Style  string         `json:"style" yaml:"style"`
	Data   map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// End is the exclusive end offset of the range.
func (s InlineStyle) End() int { return s.Offset + s.Length }

// canonicalData round-trips d through JSON. This both proves the payload is
// serialisable and normalises Go values (ints, typed slices, structs) into
// the same shape a decoded document has.
func canonicalData(d Data) (Data, error) {
	raw, err := json.Marshal(map[string]any(d))
	if err != nil {
		return nil, fmt.Errorf("data is not serializable: %w", err)
	}
	out := make(Data)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("data is not serializable: %w", err)
	}
	return out, nil
}

// Clone deep-copies d.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case Data:
		return map[string]any(t.Clone())
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}

// With returns a copy of d with key set to v.
func (d Data) With(key string, v any) Data {
	out := d.Clone()
	if out == nil {
		out = make(Data)
	}
	out[key] = v
	return out
}

// Has reports whether key is present.
func (d Data) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the string at key, or "" when absent or not a string.
func (d Data) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns the bool at key, or false.
func (d Data) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Int returns the number at key truncated to int, or 0.
func (d Data) Int(key string) int {
	n, _ := toInt(d[key])
	return n
}

// Ints returns the numeric array at key. Non-numeric elements read as 0.
func (d Data) Ints(key string) []int {
	switch arr := d[key].(type) {
	case []any:
		out := make([]int, len(arr))
		for i, v := range arr {
			out[i], _ = toInt(v)
		}
		return out
	case []int:
		return append([]int(nil), arr...)
	default:
		return nil
	}
}

// InlineStyles decodes the "inlineStyles" array. Malformed entries are skipped.
func (d Data) InlineStyles() []InlineStyle {
	arr, ok := d["inlineStyles"].([]any)
	if !ok {
		return nil
	}
	out := make([]InlineStyle, 0, len(arr))
	for _, v := range arr {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		s := InlineStyle{}
		s.Offset, _ = toInt(m["offset"])
		s.Length, _ = toInt(m["length"])
		s.Style, _ = m["style"].(string)
		if extra, ok := m["data"].(map[string]any); ok {
			s.Data = extra
		}
		out = append(out, s)
	}
	return out
}

// EncodeInlineStyles converts styles into the canonical array stored in Data.
func EncodeInlineStyles(styles []InlineStyle) []any {
	out := make([]any, 0, len(styles))
	for _, s := range styles {
		m := map[string]any{
			"offset": float64(s.Offset),
			"length": float64(s.Length),
			"style":  s.Style,
		}
		if len(s.Data) > 0 {
			m["data"] = cloneValue(s.Data)
		}
		out = append(out, m)
	}
	return out
}

// EncodeInts converts a numeric vector into the canonical array form.
func EncodeInts(v []int) []any {
	out := make([]any, len(v))
	for i, n := range v {
		out[i] = float64(n)
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

// Truthy mirrors loose truthiness on decoded values: nil, false, 0 and ""
// are falsy, everything else (including empty arrays and objects) is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}
