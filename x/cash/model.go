package cash

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/codec"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the balance of a single address.
type Set struct {
	Metadata *revsplit.Metadata `json:"metadata"`
	Coins    coin.Coins         `json:"coins"`
}

var _ orm.Model = (*Set)(nil)

// Validate requires that all coins are in alphabetical order and none is
// zero.
func (s *Set) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return s.Coins.Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() *Set {
	return &Set{
		Metadata: s.Metadata.Copy(),
		Coins:    s.Coins.Clone(),
	}
}

func (s *Set) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if s.Metadata != nil {
		if err := w.Message(1, s.Metadata); err != nil {
			return nil, err
		}
	}
	if err := coin.MarshalCoins(w, 2, s.Coins); err != nil {
		return nil, err
	}
	return w.Result(), nil
}

func (s *Set) Unmarshal(raw []byte) error {
	*s = Set{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			s.Metadata = &revsplit.Metadata{}
			err = r.Message(s.Metadata)
		case 2:
			s.Coins, err = coin.UnmarshalCoin(r, s.Coins)
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// NewBucket returns a bucket that stores balances keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Set{})
}
