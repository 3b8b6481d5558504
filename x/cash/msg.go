package cash

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/codec"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
)

const maxMemoSize int = 128

// SendMsg moves coins from the source to the destination account. Source
// account owner must sign the transaction.
type SendMsg struct {
	Metadata    *revsplit.Metadata `json:"metadata"`
	Source      revsplit.Address   `json:"source"`
	Destination revsplit.Address   `json:"destination"`
	Amount      *coin.Coin         `json:"amount"`
	// Memo is an optional human readable note.
	Memo string `json:"memo,omitempty"`
}

// Ensure we implement the Msg interface
var _ revsplit.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive SendMsg: %#v", m.Amount)
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

func (m *SendMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if m.Metadata != nil {
		if err := w.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	w.Bytes(2, m.Source)
	w.Bytes(3, m.Destination)
	if m.Amount != nil {
		if err := w.Message(4, m.Amount); err != nil {
			return nil, err
		}
	}
	w.String(5, m.Memo)
	return w.Result(), nil
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &revsplit.Metadata{}
			err = r.Message(m.Metadata)
		case 2:
			m.Source, err = r.Bytes()
		case 3:
			m.Destination, err = r.Bytes()
		case 4:
			m.Amount = &coin.Coin{}
			err = r.Message(m.Amount)
		case 5:
			m.Memo, err = r.String()
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
