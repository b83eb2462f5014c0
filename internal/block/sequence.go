package block

// Sequence is the flat ordered list of blocks making up a notebook.
// Every method that changes the order returns a new slice; the receiver
// is never modified.
type Sequence []Block

// IndexOf returns the position of the block with id, or -1.
func (s Sequence) IndexOf(id string) int {
	for i, b := range s {
		if b.id == id {
			return i
		}
	}
	return -1
}

// Find returns the block with id.
func (s Sequence) Find(id string) (Block, bool) {
	if i := s.IndexOf(id); i >= 0 {
		return s[i], true
	}
	return Block{}, false
}

// At returns the block at i, or false when i is out of range.
func (s Sequence) At(i int) (Block, bool) {
	if i < 0 || i >= len(s) {
		return Block{}, false
	}
	return s[i], true
}

// Objects serialises the whole sequence.
func (s Sequence) Objects() []Object {
	out := make([]Object, len(s))
	for i, b := range s {
		out[i] = b.Object()
	}
	return out
}

// IDs lists block ids in order.
func (s Sequence) IDs() []string {
	out := make([]string, len(s))
	for i, b := range s {
		out[i] = b.id
	}
	return out
}

// DuplicateID returns the first id that appears more than once.
func (s Sequence) DuplicateID() (string, bool) {
	seen := make(map[string]struct{}, len(s))
	for _, b := range s {
		if _, ok := seen[b.id]; ok {
			return b.id, true
		}
		seen[b.id] = struct{}{}
	}
	return "", false
}

// Clone returns a shallow copy; blocks themselves are immutable.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	return append(Sequence(nil), s...)
}

// Insert returns a copy of s with b placed at index i (clamped to [0, len]).
func (s Sequence) Insert(i int, b Block) Sequence {
	if i < 0 {
		i = 0
	}
	if i > len(s) {
		i = len(s)
	}
	out := make(Sequence, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, b)
	return append(out, s[i:]...)
}

// Replace returns a copy of s with the block at i swapped for b.
func (s Sequence) Replace(i int, b Block) Sequence {
	out := s.Clone()
	out[i] = b
	return out
}

// Remove returns a copy of s without the block at i.
func (s Sequence) Remove(i int) Sequence {
	out := make(Sequence, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// Swap returns a copy of s with positions i and j exchanged.
func (s Sequence) Swap(i, j int) Sequence {
	out := s.Clone()
	out[i], out[j] = out[j], out[i]
	return out
}

// Equal reports whether both sequences serialise identically.
func (s Sequence) Equal(other Sequence) bool {
	return EqualObjects(s.Objects(), other.Objects())
}
