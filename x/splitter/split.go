package splitter

import (
	"fmt"
	"math/big"

	"github.com/iov-one/revsplit/codec"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
)

const (
	// Denominator is the number of basis points that represent the whole
	// revenue. Shares of every split sum up to this value.
	Denominator = 10000

	// FounderCap is the highest founder share a permanent split can
	// declare.
	FounderCap = 1000
)

// Split declares how revenue is divided between the destinations, in basis
// points.
type Split struct {
	Founder uint32 `json:"founder"`
	Dao     uint32 `json:"dao"`
	Charity uint32 `json:"charity"`
}

// InitialSplit returns the split a router starts with. The founder receives
// the whole revenue.
func InitialSplit() *Split {
	return &Split{Founder: Denominator}
}

// Validate returns an error if shares do not sum up to the denominator.
func (s *Split) Validate() error {
	if s == nil {
		return errors.Wrap(ErrSplit, "missing split")
	}
	// Sum as uint64 so that huge shares cannot wrap around to a valid total.
	sum := uint64(s.Founder) + uint64(s.Dao) + uint64(s.Charity)
	if sum != Denominator {
		return errors.Wrapf(ErrSplit, "shares sum to %d instead of %d", sum, Denominator)
	}
	return nil
}

// ValidatePermanent returns an error if this split cannot be used as the
// permanent one.
func (s *Split) ValidatePermanent() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Founder > FounderCap {
		return errors.Wrapf(ErrSplit, "founder share %d exceeds the cap of %d", s.Founder, FounderCap)
	}
	return nil
}

// Copy returns a copy of this split.
func (s *Split) Copy() *Split {
	if s == nil {
		return nil
	}
	cpy := *s
	return &cpy
}

// Equals returns true if both splits declare the same shares.
func (s *Split) Equals(o *Split) bool {
	if s == nil || o == nil {
		return s == o
	}
	return *s == *o
}

func (s Split) String() string {
	return fmt.Sprintf("%d/%d/%d", s.Founder, s.Dao, s.Charity)
}

func (s *Split) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	w.Uint32(1, s.Founder)
	w.Uint32(2, s.Dao)
	w.Uint32(3, s.Charity)
	return w.Result(), nil
}

func (s *Split) Unmarshal(raw []byte) error {
	*s = Split{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			s.Founder, err = r.Uint32()
		case 2:
			s.Dao, err = r.Uint32()
		case 3:
			s.Charity, err = r.Uint32()
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Shares is an amount divided between the destinations.
type Shares struct {
	Founder coin.Coin `json:"founder"`
	Dao     coin.Coin `json:"dao"`
	Charity coin.Coin `json:"charity"`
}

// Total returns the sum of all shares.
func (s Shares) Total() (coin.Coin, error) {
	total, err := s.Founder.Add(s.Dao)
	if err != nil {
		return coin.Coin{}, err
	}
	return total.Add(s.Charity)
}

// Calculate divides given amount according to this split. Founder and DAO
// shares are rounded down to the smallest coin unit and the charity share
// receives the remainder, so the shares always sum up to the total.
func (s *Split) Calculate(total coin.Coin) (Shares, error) {
	if err := s.Validate(); err != nil {
		return Shares{}, err
	}
	if err := total.Validate(); err != nil {
		return Shares{}, errors.Wrap(err, "total")
	}
	if !total.IsNonNegative() {
		return Shares{}, errors.Wrapf(errors.ErrAmount, "negative total %s", total)
	}

	units := total.Units()
	founder := share(units, s.Founder)
	dao := share(units, s.Dao)
	charity := new(big.Int).Sub(units, founder)
	charity.Sub(charity, dao)

	var (
		res Shares
		err error
	)
	if res.Founder, err = coin.FromUnits(founder, total.Ticker); err != nil {
		return Shares{}, errors.Wrap(err, "founder")
	}
	if res.Dao, err = coin.FromUnits(dao, total.Ticker); err != nil {
		return Shares{}, errors.Wrap(err, "dao")
	}
	if res.Charity, err = coin.FromUnits(charity, total.Ticker); err != nil {
		return Shares{}, errors.Wrap(err, "charity")
	}
	return res, nil
}

// share returns units * bps / Denominator rounded down. Units must not be
// negative.
func share(units *big.Int, bps uint32) *big.Int {
	n := new(big.Int).Mul(units, big.NewInt(int64(bps)))
	return n.Quo(n, big.NewInt(Denominator))
}
