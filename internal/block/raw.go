package block

import (
	"errors"
	"fmt"
	"sort"
)

// FromRaw builds a Block from loosely typed input such as a decoded
// document or a script table. Unlike New it also catches wrong field
// types, e.g. a prop whose value is not a string.
func FromRaw(raw map[string]any) (Block, error) {
	var errs []error
	obj := Object{}

	str := func(field string) string {
		v, present := raw[field]
		if !present {
			return ""
		}
		s, ok := v.(string)
		if !ok {
			errs = append(errs, newValidationError(field, "string", fmt.Errorf("expected string, got %T", v)))
			return ""
		}
		return s
	}
	obj.ID = str("id")
	obj.BlockID = str("blockid")
	obj.Type = str("type")
	if len(errs) > 0 {
		// Skip the format checks New would repeat for fields already rejected.
		return Block{}, errors.Join(errs...)
	}

	switch d := raw["data"].(type) {
	case nil:
	case map[string]any:
		obj.Data = Data(d)
	case Data:
		obj.Data = d
	default:
		return Block{}, newValidationError("data", "object", fmt.Errorf("expected object, got %T", d))
	}

	props, err := rawProps(raw["props"])
	if err != nil {
		return Block{}, err
	}
	obj.Props = props
	return New(obj)
}

// rawProps checks keys and values together so every violation is reported.
func rawProps(v any) (Props, error) {
	switch p := v.(type) {
	case nil:
		return Props{}, nil
	case Props:
		return p, nil
	case map[string]string:
		return Props(p), nil
	case map[string]any:
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(Props, len(p))
		var errs []error
		for _, k := range keys {
			if !propKeyPattern.MatchString(k) {
				errs = append(errs, fmt.Errorf("key %q must match %s", k, propKeyPattern))
			}
			s, ok := p[k].(string)
			if !ok {
				errs = append(errs, fmt.Errorf("value of %q must be a string, got %T", k, p[k]))
				continue
			}
			out[k] = s
		}
		if len(errs) > 0 {
			return nil, newValidationError("props", "key/value", errs...)
		}
		return out, nil
	default:
		return nil, newValidationError("props", "object", fmt.Errorf("expected object, got %T", v))
	}
}

// FromObjects builds a sequence from plain objects, failing on the first
// invalid block or duplicated id. Nothing is returned on failure.
func FromObjects(objs []Object) (Sequence, error) {
	seq := make(Sequence, 0, len(objs))
	seen := make(map[string]struct{}, len(objs))
	for i, obj := range objs {
		b, err := New(obj)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if _, dup := seen[b.ID()]; dup {
			return nil, fmt.Errorf("block %d: %w: %s", i, ErrDuplicateID, b.ID())
		}
		seen[b.ID()] = struct{}{}
		seq = append(seq, b)
	}
	return seq, nil
}

// ErrDuplicateID is returned when a sequence would hold the same id twice.
var ErrDuplicateID = errors.New("duplicate block id")
