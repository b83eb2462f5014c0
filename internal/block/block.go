// Package block holds the Block value object: the atomic unit of a notebook.
//
// A Block is immutable once built. Every constructor and every With* setter
// runs the same validation and returns a fresh instance, so a Block value
// that exists is always valid.
package block

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	idPattern      = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	blockIDPattern = regexp.MustCompile(`^[0-9a-fA-F_]{10}$`)
	propKeyPattern = regexp.MustCompile(`^[a-z_]{1,16}$`)
)

// Props is the flat string-to-string user metadata of a block.
type Props map[string]string

// Clone returns a copy of p. A nil Props clones to an empty one.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Object is the plain serialisable form of a block. It is the only
// wire and storage format the notebook commits to.
type Object struct {
	ID      string `json:"id" yaml:"id"`
	BlockID string `json:"blockid" yaml:"blockid"`
	Type    string `json:"type" yaml:"type"`
	Data    Data   `json:"data" yaml:"data"`
	Props   Props  `json:"props" yaml:"props"`
}

// Block is a validated, immutable notebook block.
type Block struct {
	id      string
	blockid string
	typ     string
	data    Data
	props   Props
}

// New validates obj and builds a Block from it.
// All failing fields are reported, joined in field order.
func New(obj Object) (Block, error) {
	var errs []error
	if err := checkID(obj.ID); err != nil {
		errs = append(errs, err)
	}
	if err := checkBlockID(obj.BlockID); err != nil {
		errs = append(errs, err)
	}
	if err := checkType(obj.Type); err != nil {
		errs = append(errs, err)
	}
	data, err := checkData(obj.Data)
	if err != nil {
		errs = append(errs, err)
	}
	if err := checkProps(obj.Props); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Block{}, errors.Join(errs...)
	}
	return Block{
		id:      obj.ID,
		blockid: obj.BlockID,
		typ:     obj.Type,
		data:    data,
		props:   obj.Props.Clone(),
	}, nil
}

// MustNew is New for literals in tests and defaults; it panics on error.
func MustNew(obj Object) Block {
	b, err := New(obj)
	if err != nil {
		panic(err)
	}
	return b
}

func (b Block) ID() string      { return b.id }
func (b Block) BlockID() string { return b.blockid }
func (b Block) Type() string    { return b.typ }

// Data returns a copy of the block's payload.
func (b Block) Data() Data { return b.data.Clone() }

// Props returns a copy of the block's metadata.
func (b Block) Props() Props { return b.props.Clone() }

// Text is shorthand for the "text" field most block types carry.
func (b Block) Text() string { return b.data.String("text") }

// IsZero reports whether b is the zero Block rather than a constructed one.
func (b Block) IsZero() bool { return b.id == "" }

// Object returns a deep-copied serialisable snapshot of b.
func (b Block) Object() Object {
	return Object{
		ID:      b.id,
		BlockID: b.blockid,
		Type:    b.typ,
		Data:    b.data.Clone(),
		Props:   b.props.Clone(),
	}
}

// Equal reports whether b and other serialise to the same value.
func (b Block) Equal(other Block) bool {
	return Equal(b.Object(), other.Object())
}

func (b Block) String() string {
	return fmt.Sprintf("%s(%s)", b.typ, b.id)
}

// --- Functional setters ---

func (b Block) WithID(id string) (Block, error) {
	obj := b.Object()
	obj.ID = id
	return New(obj)
}

func (b Block) WithBlockID(blockid string) (Block, error) {
	obj := b.Object()
	obj.BlockID = blockid
	return New(obj)
}

func (b Block) WithType(typ string) (Block, error) {
	obj := b.Object()
	obj.Type = typ
	return New(obj)
}

func (b Block) WithData(data Data) (Block, error) {
	obj := b.Object()
	obj.Data = data
	return New(obj)
}

func (b Block) WithProps(props Props) (Block, error) {
	obj := b.Object()
	obj.Props = props
	return New(obj)
}

// --- Field checks ---

func checkID(id string) error {
	if !idPattern.MatchString(id) {
		return newValidationError("id", "format", fmt.Errorf("%q must be 24 hexadecimal characters", id))
	}
	return nil
}

func checkBlockID(blockid string) error {
	if !blockIDPattern.MatchString(blockid) {
		return newValidationError("blockid", "format", fmt.Errorf("%q must be 10 characters of [0-9a-fA-F_]", blockid))
	}
	return nil
}

func checkType(typ string) error {
	if typ == "" {
		return newValidationError("type", "required", errors.New("type must be a non-empty string"))
	}
	return nil
}

func checkData(data Data) (Data, error) {
	if data == nil {
		return nil, newValidationError("data", "required", errors.New("data must be present"))
	}
	canon, err := canonicalData(data)
	if err != nil {
		return nil, newValidationError("data", "serializable", err)
	}
	return canon, nil
}

// checkProps reports every bad key together rather than stopping at the first.
func checkProps(props Props) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		if !propKeyPattern.MatchString(k) {
			errs = append(errs, fmt.Errorf("key %q must match %s", k, propKeyPattern))
		}
	}
	if len(errs) > 0 {
		return newValidationError("props", "key", errs...)
	}
	return nil
}
