// Package numbering implements hierarchical list numbering: fixed-length
// counter vectors, their display form, and the forward renumbering pass
// run after structural changes to a notebook.
package numbering

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bethropolis/notebook/internal/block"
)

// Data keys read and written on list blocks.
const (
	FieldIndentation = "indentation"
	FieldNumbering   = "numbering"
	FieldManual      = "manual"
)

// DefaultMaxIndent is the depth of ordered lists.
const DefaultMaxIndent = 4

var ErrInvalidNumbering = errors.New("invalid numbering")

var numberingText = regexp.MustCompile(`^[0-9.]+$`)

// Vector holds one counter per indentation level, level 1 first.
type Vector []int

// Zero returns an all-zero vector of length n.
func Zero(n int) Vector {
	return make(Vector, n)
}

// Normalize pads with zeros or truncates v to length n.
func (v Vector) Normalize(n int) Vector {
	out := Zero(n)
	copy(out, v)
	return out
}

// Advance returns a copy of v with the counter at level incremented and
// every deeper counter reset. level is 1-based and clamped to the vector.
func (v Vector) Advance(level int) Vector {
	out := append(Vector(nil), v...)
	if len(out) == 0 {
		return out
	}
	if level < 1 {
		level = 1
	}
	if level > len(out) {
		level = len(out)
	}
	out[level-1]++
	for i := level; i < len(out); i++ {
		out[i] = 0
	}
	return out
}

// Equal reports whether v and o hold the same counters.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether every counter is zero.
func (v Vector) IsZero() bool {
	for _, n := range v {
		if n != 0 {
			return false
		}
	}
	return true
}

// String renders v with trailing zeros trimmed: [2 1 0 0] is "2.1".
// An all-zero vector renders as "0".
func (v Vector) String() string {
	end := len(v)
	for end > 0 && v[end-1] == 0 {
		end--
	}
	if end == 0 {
		return "0"
	}
	parts := make([]string, end)
	for i := 0; i < end; i++ {
		parts[i] = strconv.Itoa(v[i])
	}
	return strings.Join(parts, ".")
}

// Parse reads user-entered numbering such as "3.2" into a vector of length
// depth. Only digits and dots are allowed, there must be at most depth parts,
// no part may be empty and the last part must not be zero.
func Parse(text string, depth int) (Vector, error) {
	if !numberingText.MatchString(text) {
		return nil, fmt.Errorf("%w: %q may only contain digits and dots", ErrInvalidNumbering, text)
	}
	parts := strings.Split(text, ".")
	if len(parts) > depth {
		return nil, fmt.Errorf("%w: %q has more than %d levels", ErrInvalidNumbering, text, depth)
	}
	out := Zero(depth)
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: %q has an empty level", ErrInvalidNumbering, text)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidNumbering, text, err)
		}
		out[i] = n
	}
	if out[len(parts)-1] == 0 {
		return nil, fmt.Errorf("%w: %q must not end in zero", ErrInvalidNumbering, text)
	}
	return out, nil
}

// Levels returns how many parts a parsed numbering text has.
func Levels(text string) int {
	return len(strings.Split(text, "."))
}

// Of reads the stored numbering of b, normalised to depth.
func Of(b block.Block, depth int) Vector {
	return Vector(b.Data().Ints(FieldNumbering)).Normalize(depth)
}

// Indentation reads the stored indentation of b, clamped to [1, depth].
func Indentation(b block.Block, depth int) int {
	return ClampIndent(b.Data().Int(FieldIndentation), depth)
}

// ClampIndent bounds an indentation level to [1, depth].
func ClampIndent(level, depth int) int {
	if level < 1 {
		return 1
	}
	if level > depth {
		return depth
	}
	return level
}

// IsManual reports whether b's numbering is user-fixed.
func IsManual(b block.Block) bool {
	return b.Data().Bool(FieldManual)
}

// Renumber walks seq forward from start and rewrites the numbering of
// every non-manual block of type typ through modify.
//
// The running vector starts from the stored numbering of the nearest
// block of typ before start, manual or not, or all zeros when there is
// none. Manual blocks inside the walk are left alone and do not change
// the running vector.
func Renumber(seq block.Sequence, start int, typ string, depth int, modify func(block.Object) error) error {
	if start < 0 {
		start = 0
	}
	if start > len(seq) {
		start = len(seq)
	}
	last := Zero(depth)
	for i := start - 1; i >= 0; i-- {
		if seq[i].Type() == typ {
			last = Of(seq[i], depth)
			break
		}
	}

	for i := start; i < len(seq); i++ {
		b := seq[i]
		if b.Type() != typ || IsManual(b) {
			continue
		}
		last = last.Advance(Indentation(b, depth))
		if Of(b, depth).Equal(last) && len(b.Data().Ints(FieldNumbering)) == depth {
			continue
		}
		obj := b.Object()
		obj.Data[FieldNumbering] = block.EncodeInts(last)
		if err := modify(obj); err != nil {
			return fmt.Errorf("renumber %s: %w", b.ID(), err)
		}
	}
	return nil
}
