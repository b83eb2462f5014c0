// Package document reads and writes notebooks as JSON or YAML files and
// watches them for changes made outside the editor.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bethropolis/notebook/internal/block"
)

var (
	ErrUnknownFormat   = errors.New("unknown document format")
	ErrInvalidDocument = errors.New("invalid document")
)

// Version is written into every saved document.
const Version = 1

// Format is a document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// file is the on-disk shape. A bare list of blocks is accepted on read.
type file struct {
	Version int            `json:"version" yaml:"version"`
	Blocks  []block.Object `json:"blocks" yaml:"blocks"`
}

// Decode reads a document. Every block is validated; the errors of all
// invalid blocks are reported together and nothing is returned.
func Decode(r io.Reader, f Format) ([]block.Object, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []block.Object{}, nil
	}

	var doc any
	switch f {
	case FormatJSON:
		err = json.Unmarshal(raw, &doc)
	default:
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	items, err := blockList(doc)
	if err != nil {
		return nil, err
	}

	objs := make([]block.Object, 0, len(items))
	var errs []error
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("block %d: expected a mapping, got %T", i, item))
			continue
		}
		b, err := block.FromRaw(m)
		if err != nil {
			errs = append(errs, fmt.Errorf("block %d: %w", i, err))
			continue
		}
		objs = append(objs, b.Object())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, errors.Join(errs...))
	}
	if _, err := block.FromObjects(objs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return objs, nil
}

func blockList(doc any) ([]any, error) {
	switch d := doc.(type) {
	case []any:
		return d, nil
	case map[string]any:
		if v, ok := d["version"]; ok {
			if n, _ := v.(int); n > Version {
				return nil, fmt.Errorf("%w: version %v is newer than %d", ErrInvalidDocument, v, Version)
			}
			if n, _ := v.(float64); n > Version {
				return nil, fmt.Errorf("%w: version %v is newer than %d", ErrInvalidDocument, v, Version)
			}
		}
		list, ok := d["blocks"].([]any)
		if !ok && d["blocks"] != nil {
			return nil, fmt.Errorf("%w: blocks must be a list", ErrInvalidDocument)
		}
		return list, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unexpected top level %T", ErrInvalidDocument, doc)
}

// Encode writes objs with the document header.
func Encode(w io.Writer, f Format, objs []block.Object) error {
	if objs == nil {
		objs = []block.Object{}
	}
	doc := file{Version: Version, Blocks: objs}
	if f == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// Load reads the document at path, choosing the format by extension. A
// missing file is an empty notebook.
func Load(path string) ([]block.Object, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []block.Object{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	objs, err := Decode(fh, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return objs, nil
}

// Save writes objs to path through a temporary file in the same
// directory, so readers never see a half-written document.
func Save(path string, objs []block.Object) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, f, objs); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
