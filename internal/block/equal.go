package block

import (
	"encoding/json"
	"reflect"
)

// Equal compares two serialisable values structurally. Both sides are
// reduced to their JSON form first, so map order, numeric kinds
// (int vs float64) and named types do not matter. Values that cannot be
// serialised are never equal.
func Equal(a, b any) bool {
	ca, err := normalize(a)
	if err != nil {
		return false
	}
	cb, err := normalize(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(ca, cb)
}

// EqualObjects compares two serialised sequences. A nil Props and an empty
// one are treated the same.
func EqualObjects(a, b []Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(fillProps(a[i]), fillProps(b[i])) {
			return false
		}
	}
	return true
}

func fillProps(o Object) Object {
	if o.Props == nil {
		o.Props = Props{}
	}
	return o
}

func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
