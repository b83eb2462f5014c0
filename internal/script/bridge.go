package script

import (
	"fmt"
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/bethropolis/notebook/internal/block"
)

// toLua converts decoded document values into Lua values.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case float64:
		return lua.LNumber(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case []any:
		t := L.CreateTable(len(val), 0)
		for i, item := range val {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	case block.Data:
		return toLua(L, map[string]any(val))
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for _, k := range sortedKeys(val) {
			t.RawSetString(k, toLua(L, val[k]))
		}
		return t
	case block.Props:
		t := L.CreateTable(0, len(val))
		for k, s := range val {
			t.RawSetString(k, lua.LString(s))
		}
		return t
	case []string:
		t := L.CreateTable(len(val), 0)
		for i, s := range val {
			t.RawSetInt(i+1, lua.LString(s))
		}
		return t
	}
	return lua.LString(fmt.Sprint(v))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// objectToLua builds the table a script sees for a block.
func objectToLua(L *lua.LState, obj block.Object) *lua.LTable {
	t := L.CreateTable(0, 5)
	t.RawSetString("id", lua.LString(obj.ID))
	t.RawSetString("blockid", lua.LString(obj.BlockID))
	t.RawSetString("type", lua.LString(obj.Type))
	t.RawSetString("data", toLua(L, obj.Data))
	t.RawSetString("props", toLua(L, obj.Props))
	return t
}

// toGo converts a Lua value back. Lua cannot tell an empty list from an
// empty map, so hint, the value the table was made from, decides the shape
// where it can; otherwise a table with keys 1..n is a list.
func toGo(lv lua.LValue, hint any) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return tableToGo(v, hint, map[*lua.LTable]bool{})
	}
	return nil
}

func tableToGo(t *lua.LTable, hint any, visited map[*lua.LTable]bool) any {
	if visited[t] {
		return nil
	}
	visited[t] = true
	defer delete(visited, t)

	conv := func(lv lua.LValue, h any) any {
		if inner, ok := lv.(*lua.LTable); ok {
			return tableToGo(inner, h, visited)
		}
		return toGo(lv, h)
	}

	asList := false
	switch hint.(type) {
	case []any:
		asList = true
	case map[string]any, block.Data, block.Props:
	default:
		asList = isList(t)
	}

	if asList {
		hints, _ := hint.([]any)
		n := t.Len()
		out := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			var h any
			if i-1 < len(hints) {
				h = hints[i-1]
			}
			out = append(out, conv(t.RawGetInt(i), h))
		}
		return out
	}

	var hints map[string]any
	switch h := hint.(type) {
	case map[string]any:
		hints = h
	case block.Data:
		hints = h
	}
	out := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		key := k.String()
		if n, ok := k.(lua.LNumber); ok && float64(n) == math.Trunc(float64(n)) {
			key = fmt.Sprintf("%d", int64(n))
		}
		out[key] = conv(v, hints[key])
	})
	return out
}

func isList(t *lua.LTable) bool {
	n := t.Len()
	if n == 0 {
		return false
	}
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })
	return count == n
}

// luaToObject reads a block table returned by a script. Fields the script
// left out keep their values from current.
func luaToObject(t *lua.LTable, current block.Object) (map[string]any, error) {
	raw := map[string]any{
		"id":      current.ID,
		"blockid": current.BlockID,
		"type":    current.Type,
		"data":    map[string]any(current.Data),
		"props":   current.Props,
	}
	for _, field := range []string{"id", "blockid", "type"} {
		switch v := t.RawGetString(field).(type) {
		case *lua.LNilType:
		case lua.LString:
			raw[field] = string(v)
		default:
			return nil, fmt.Errorf("%w: %s must be a string, got %s", ErrInvalidResult, field, v.Type())
		}
	}
	if raw["id"] != current.ID {
		return nil, fmt.Errorf("%w: block id cannot change", ErrInvalidResult)
	}
	if data := t.RawGetString("data"); data != lua.LNil {
		raw["data"] = toGo(data, map[string]any(current.Data))
	}
	if props := t.RawGetString("props"); props != lua.LNil {
		raw["props"] = toGo(props, current.Props)
	}
	return raw, nil
}
