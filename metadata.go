package revsplit

import (
	"github.com/iov-one/revsplit/codec"
	"github.com/iov-one/revsplit/errors"
)

// Metadata is the first field of every model and message. It carries the
// schema version an entity was created with.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if this metadata is not valid.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be at least 1")
	}
	return nil
}

// Copy returns a deep copy of this metadata.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	w.Uint32(1, m.Schema)
	return w.Result(), nil
}

func (m *Metadata) Unmarshal(raw []byte) error {
	*m = Metadata{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			if m.Schema, err = r.Uint32(); err != nil {
				return err
			}
		default:
			if err := r.Skip(wire); err != nil {
				return err
			}
		}
	}
	return nil
}
