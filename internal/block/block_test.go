package block

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testID      = "0123456789abcdef01234567"
	testBlockID = "abc_DEF012"
)

func validObject() Object {
	return Object{
		ID:      testID,
		BlockID: testBlockID,
		Type:    "paragraph",
		Data:    Data{"text": "hello", "inlineStyles": []any{}},
		Props:   Props{"author": "ana"},
	}
}

func TestNew_Valid(t *testing.T) {
	b, err := New(validObject())
	require.NoError(t, err)

	assert.Equal(t, testID, b.ID())
	assert.Equal(t, testBlockID, b.BlockID())
	assert.Equal(t, "paragraph", b.Type())
	assert.Equal(t, "hello", b.Text())
	assert.Equal(t, "ana", b.Props()["author"])
	assert.False(t, b.IsZero())
}

func TestNew_FieldErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(o *Object)
		sentinel error
		field    string
	}{
		{"short id", func(o *Object) { o.ID = "abc" }, ErrInvalidID, "id"},
		{"non hex id", func(o *Object) { o.ID = "zz23456789abcdef01234567" }, ErrInvalidID, "id"},
		{"blockid too long", func(o *Object) { o.BlockID = "abc_DEF0123" }, ErrInvalidBlockID, "blockid"},
		{"blockid bad char", func(o *Object) { o.BlockID = "abc-DEF012" }, ErrInvalidBlockID, "blockid"},
		{"empty type", func(o *Object) { o.Type = "" }, ErrInvalidType, "type"},
		{"missing data", func(o *Object) { o.Data = nil }, ErrInvalidData, "data"},
		{"unserializable data", func(o *Object) { o.Data = Data{"fn": func() {}} }, ErrInvalidData, "data"},
		{"uppercase prop key", func(o *Object) { o.Props = Props{"Author": "x"} }, ErrInvalidProps, "props"},
		{"prop key too long", func(o *Object) { o.Props = Props{"abcdefghijklmnopq": "x"} }, ErrInvalidProps, "props"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := validObject()
			tt.mutate(&obj)

			_, err := New(obj)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNew_ReportsAllInvalidProps(t *testing.T) {
	obj := validObject()
	obj.Props = Props{"Bad": "1", "also-bad": "2", "fine": "3"}

	_, err := New(obj)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "props", verr.Field)
	assert.Len(t, verr.Errs, 2)
	assert.Contains(t, err.Error(), `"Bad"`)
	assert.Contains(t, err.Error(), `"also-bad"`)
}

func TestNew_ReportsEveryBadField(t *testing.T) {
	_, err := New(Object{ID: "x", BlockID: "y", Type: "p", Data: Data{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, err, ErrInvalidBlockID)
	assert.NotErrorIs(t, err, ErrInvalidType)
}

func TestFromRaw(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		b, err := FromRaw(map[string]any{
			"id":      testID,
			"blockid": testBlockID,
			"type":    "heading",
			"data":    map[string]any{"text": "Title"},
			"props":   map[string]any{"level": "1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Title", b.Text())
		assert.Equal(t, Props{"level": "1"}, b.Props())
	})

	t.Run("prop keys and values reported together", func(t *testing.T) {
		_, err := FromRaw(map[string]any{
			"id":      testID,
			"blockid": testBlockID,
			"type":    "heading",
			"data":    map[string]any{},
			"props":   map[string]any{"BAD": "x", "count": 3},
		})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "props", verr.Field)
		assert.Len(t, verr.Errs, 2)
		assert.ErrorIs(t, err, ErrInvalidProps)
	})

	t.Run("non string type", func(t *testing.T) {
		_, err := FromRaw(map[string]any{"id": testID, "blockid": testBlockID, "type": 7, "data": map[string]any{}})
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("data not an object", func(t *testing.T) {
		_, err := FromRaw(map[string]any{"id": testID, "blockid": testBlockID, "type": "p", "data": "text"})
		assert.ErrorIs(t, err, ErrInvalidData)
	})
}

func TestSetters_ReturnNewInstance(t *testing.T) {
	b := MustNew(validObject())

	changed, err := b.WithData(b.Data().With("text", "bye"))
	require.NoError(t, err)
	assert.Equal(t, "bye", changed.Text())
	assert.Equal(t, "hello", b.Text())

	_, err = b.WithProps(Props{"Nope": "x"})
	assert.ErrorIs(t, err, ErrInvalidProps)

	_, err = b.WithType("")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestObject_IsDeepCopy(t *testing.T) {
	obj := validObject()
	obj.Data["nested"] = map[string]any{"k": "v"}
	b := MustNew(obj)

	snap := b.Object()
	snap.Data["text"] = "mutated"
	snap.Data["nested"].(map[string]any)["k"] = "mutated"
	snap.Props["author"] = "mutated"

	assert.Equal(t, "hello", b.Text())
	assert.Equal(t, "v", b.Data()["nested"].(map[string]any)["k"])
	assert.Equal(t, "ana", b.Props()["author"])
}

func TestData_CanonicalNumbers(t *testing.T) {
	obj := validObject()
	obj.Data = Data{"indentation": 2, "numbering": []int{1, 2, 0, 0}, "manual": true}
	b := MustNew(obj)

	d := b.Data()
	assert.Equal(t, 2, d.Int("indentation"))
	assert.Equal(t, []int{1, 2, 0, 0}, d.Ints("numbering"))
	assert.True(t, d.Bool("manual"))
	assert.IsType(t, float64(0), d["indentation"])
}

func TestData_InlineStyles(t *testing.T) {
	styles := []InlineStyle{{Offset: 0, Length: 4, Style: "BOLD"}, {Offset: 5, Length: 2, Style: "LINK", Data: map[string]any{"url": "x"}}}
	obj := validObject()
	obj.Data = Data{"text": "some text", "inlineStyles": EncodeInlineStyles(styles)}
	b := MustNew(obj)

	assert.Equal(t, styles, b.Data().InlineStyles())
	assert.Equal(t, 4, styles[0].End())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(map[string]any{"n": 1}, map[string]any{"n": 1.0}))
	assert.True(t, Equal([]any{"a", map[string]any{"x": []int{1}}}, []any{"a", map[string]any{"x": []any{1.0}}}))
	assert.False(t, Equal(map[string]any{"n": 1}, map[string]any{"n": 2}))
	assert.False(t, Equal(func() {}, func() {}))
}

func TestSequence_RoundTrip(t *testing.T) {
	second := validObject()
	second.ID = "ffffffffffffffffffffffff"
	second.Data = Data{"text": "two", "numbering": []int{1, 0, 0, 0}}
	seq, err := FromObjects([]Object{validObject(), second})
	require.NoError(t, err)

	again, err := FromObjects(seq.Objects())
	require.NoError(t, err)
	assert.True(t, seq.Equal(again))
	assert.True(t, EqualObjects(seq.Objects(), again.Objects()))
}

func TestFromObjects_RejectsDuplicates(t *testing.T) {
	_, err := FromObjects([]Object{validObject(), validObject()})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestSequence_Operations(t *testing.T) {
	mk := func(id string) Block {
		obj := validObject()
		obj.ID = id
		return MustNew(obj)
	}
	a, b, c := mk("aaaaaaaaaaaaaaaaaaaaaaaa"), mk("bbbbbbbbbbbbbbbbbbbbbbbb"), mk("cccccccccccccccccccccccc")
	seq := Sequence{a, b}

	inserted := seq.Insert(1, c)
	assert.Equal(t, []string{a.ID(), c.ID(), b.ID()}, inserted.IDs())
	assert.Equal(t, []string{a.ID(), b.ID()}, seq.IDs())

	assert.Equal(t, []string{b.ID(), a.ID()}, seq.Swap(0, 1).IDs())
	assert.Equal(t, []string{b.ID()}, seq.Remove(0).IDs())
	assert.Equal(t, 1, seq.IndexOf(b.ID()))
	assert.Equal(t, -1, seq.IndexOf(c.ID()))

	_, dup := Sequence{a, b, a}.DuplicateID()
	assert.True(t, dup)
}

func TestIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := NewID()
		assert.Regexp(t, idPattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		assert.Regexp(t, blockIDPattern, NewBlockID())
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(0.0))
	assert.False(t, Truthy(false))
	assert.True(t, Truthy("x"))
	assert.True(t, Truthy([]any{}))
	assert.True(t, Truthy(map[string]any{}))
}
