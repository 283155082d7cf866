package content

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/woodfordbl/maffei-design/pkg/errors"
)

//go:embed fixtures/collections.yaml
var defaultContent []byte

// Library is a loaded content file.
type Library struct {
	Site        Site         `yaml:"site"`
	Collections []Collection `yaml:"collections"`

	byID map[string]int
}

// Default returns the library embedded in the binary.
func Default() (*Library, error) {
	return Decode(bytes.NewReader(defaultContent))
}

// DefaultBytes returns the raw embedded content file.
func DefaultBytes() []byte {
	return defaultContent
}

// Load reads a library from a YAML file on disk. An empty path loads the
// embedded default.
func Load(path string) (*Library, error) {
	if path == "" {
		return Default()
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "content file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open content file")
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates a library.
func Decode(r io.Reader) (*Library, error) {
	var lib Library
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lib); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidContent, err, "decode content")
	}
	if err := lib.index(); err != nil {
		return nil, err
	}
	return &lib, nil
}

func (l *Library) index() error {
	l.byID = make(map[string]int, len(l.Collections))
	for i, c := range l.Collections {
		if c.ID == "" {
			return errors.New(errors.ErrCodeInvalidContent, "collection %d has no id", i)
		}
		if err := errors.ValidateSlug(c.Slug); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidContent, err, "collection %q", c.ID)
		}
		if _, dup := l.byID[c.ID]; dup {
			return errors.New(errors.ErrCodeInvalidContent, "duplicate collection id %q", c.ID)
		}
		l.byID[c.ID] = i
	}
	return nil
}

// ByID returns the collection with the given id.
func (l *Library) ByID(id string) (*Collection, error) {
	i, ok := l.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeCollectionNotFound, "collection %q not found", id)
	}
	return &l.Collections[i], nil
}

// Encode writes the library as YAML.
func (l *Library) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return err
	}
	return enc.Close()
}
