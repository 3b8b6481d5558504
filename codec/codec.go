/*
Package codec implements the protobuf wire format encoding used by all
persisted models and messages.

Each model implements Marshal and Unmarshal by writing and reading its fields
in field number order, the same way gogoproto generated marshalers do. Zero
values are omitted as proto3 requires, so any protobuf implementation can
decode the result given a message declaration with the same field numbers.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/revsplit/errors"
)

// Marshaler is implemented by any model that can serialize itself.
type Marshaler interface {
	Marshal() ([]byte, error)
}

// Unmarshaler is implemented by any model that can load its state from the
// binary representation.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Writer accumulates encoded fields.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) tag(field int, wire int) {
	w.buf = append(w.buf, proto.EncodeVarint(uint64(field)<<3|uint64(wire))...)
}

// Uint64 writes an unsigned varint field. Zero value is omitted.
func (w *Writer) Uint64(field int, v uint64) {
	if v == 0 {
		return
	}
	w.tag(field, proto.WireVarint)
	w.buf = append(w.buf, proto.EncodeVarint(v)...)
}

// Int64 writes a signed varint field using two's complement, as the protobuf
// int64 type does. Zero value is omitted.
func (w *Writer) Int64(field int, v int64) {
	w.Uint64(field, uint64(v))
}

// Uint32 writes an unsigned varint field. Zero value is omitted.
func (w *Writer) Uint32(field int, v uint32) {
	w.Uint64(field, uint64(v))
}

// Int32 writes a signed varint field. Zero value is omitted.
func (w *Writer) Int32(field int, v int32) {
	w.Uint64(field, uint64(int64(v)))
}

// Bool writes a boolean field. False is omitted.
func (w *Writer) Bool(field int, v bool) {
	if v {
		w.Uint64(field, 1)
	}
}

// Bytes writes a length delimited field. Empty value is omitted.
func (w *Writer) Bytes(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	w.tag(field, proto.WireBytes)
	w.buf = append(w.buf, proto.EncodeVarint(uint64(len(b)))...)
	w.buf = append(w.buf, b...)
}

// String writes a string field. Empty value is omitted.
func (w *Writer) String(field int, s string) {
	w.Bytes(field, []byte(s))
}

// Message writes an embedded message field. Call it only for non nil
// messages. An embedded message is always written, even if empty, so that
// its presence is preserved.
func (w *Writer) Message(field int, m Marshaler) error {
	raw, err := m.Marshal()
	if err != nil {
		return err
	}
	w.tag(field, proto.WireBytes)
	w.buf = append(w.buf, proto.EncodeVarint(uint64(len(raw)))...)
	w.buf = append(w.buf, raw...)
	return nil
}

// Result returns all encoded data.
func (w *Writer) Result() []byte {
	return w.buf
}

// Reader decodes fields one by one.
//
//	r := codec.NewReader(raw)
//	for r.More() {
//	  field, wire, err := r.Tag()
//	  ...
//	}
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a reader over given serialized message.
func NewReader(raw []byte) *Reader {
	return &Reader{buf: raw}
}

// More returns true if there is more data to read.
func (r *Reader) More() bool {
	return r.off < len(r.buf)
}

func (r *Reader) varint() (uint64, error) {
	v, n := proto.DecodeVarint(r.buf[r.off:])
	if n == 0 {
		return 0, errors.Wrap(errors.ErrInput, "malformed varint")
	}
	r.off += n
	return v, nil
}

// Tag reads the next field header.
func (r *Reader) Tag() (field int, wire int, err error) {
	v, err := r.varint()
	if err != nil {
		return 0, 0, err
	}
	field = int(v >> 3)
	if field <= 0 {
		return 0, 0, errors.Wrapf(errors.ErrInput, "illegal field number %d", field)
	}
	return field, int(v & 0x7), nil
}

// Uint64 reads a varint value.
func (r *Reader) Uint64() (uint64, error) {
	return r.varint()
}

// Int64 reads a varint value encoded as two's complement.
func (r *Reader) Int64() (int64, error) {
	v, err := r.varint()
	return int64(v), err
}

// Uint32 reads a varint value.
func (r *Reader) Uint32() (uint32, error) {
	v, err := r.varint()
	return uint32(v), err
}

// Int32 reads a varint value.
func (r *Reader) Int32() (int32, error) {
	v, err := r.varint()
	return int32(v), err
}

// Bool reads a varint encoded boolean.
func (r *Reader) Bool() (bool, error) {
	v, err := r.varint()
	return v != 0, err
}

// Bytes reads a length delimited value. Returned slice is a copy and can be
// retained.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.varint()
	if err != nil {
		return nil, err
	}
	end := r.off + int(n)
	if int(n) < 0 || end > len(r.buf) {
		return nil, errors.Wrap(errors.ErrInput, "length exceeds buffer")
	}
	b := make([]byte, n)
	copy(b, r.buf[r.off:end])
	r.off = end
	return b, nil
}

// String reads a length delimited string.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	return string(b), err
}

// Message reads an embedded message into given destination.
func (r *Reader) Message(m Unmarshaler) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	return m.Unmarshal(b)
}

// Skip discards the value of a field of given wire type. Use it for unknown
// fields.
func (r *Reader) Skip(wire int) error {
	switch wire {
	case proto.WireVarint:
		_, err := r.varint()
		return err
	case proto.WireFixed64:
		return r.advance(8)
	case proto.WireBytes:
		n, err := r.varint()
		if err != nil {
			return err
		}
		return r.advance(int(n))
	case proto.WireFixed32:
		return r.advance(4)
	default:
		return errors.Wrapf(errors.ErrInput, "unsupported wire type %d", wire)
	}
}

func (r *Reader) advance(n int) error {
	if n < 0 || r.off+n > len(r.buf) {
		return errors.Wrap(errors.ErrInput, "length exceeds buffer")
	}
	r.off += n
	return nil
}
