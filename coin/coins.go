package coin

import (
	"sort"

	"github.com/iov-one/revsplit/codec"
	"github.com/iov-one/revsplit/errors"
)

// Coins represents a set of coins. Most operations on the coin set require
// normalized form. Make sure to normalize you collection before using.
type Coins []*Coin

// CombineCoins creates a Coins containing all given coins.
// It will sort them and combine duplicates to produce
// a normalized form regardless of input.
func CombineCoins(cs ...Coin) (Coins, error) {
	var err error
	coins := make(Coins, 0, len(cs))
	for _, c := range cs {
		coins, err = coins.Add(c)
		if err != nil {
			return nil, err
		}
	}
	if err := coins.Validate(); err != nil {
		return nil, err
	}
	return coins, nil
}

// Clone returns a copy that can be safely modified
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make([]*Coin, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return Coins(res)
}

// Add modifies the Coins, to increase the holdings by c
func (cs Coins) Add(c Coin) (Coins, error) {
	// We ignore zero values
	if c.IsZero() {
		return cs, nil
	}

	has, i := cs.findCoin(c.Ticker)
	// add to existing coin
	if has != nil {
		sum, err := has.Add(c)
		if err != nil {
			return nil, err
		}
		// if the result is zero, remove this currency
		if sum.IsZero() {
			res := append(cs[:i], cs[i+1:]...)
			return res, nil
		}
		cs[i] = &sum
		return cs, nil
	}
	// special case append to end
	if i == len(cs) {
		res := append(cs, &c)
		return res, nil
	}
	// insert in beginning or middle (with one alloc)
	res := append(cs, nil)
	copy(res[i+1:], res[i:])
	res[i] = &c
	return res, nil
}

// Subtract modifies the Coins, to decrease the holdings by c
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Contains returns true if there is at least that much
// coin in the Coins. If it returns true, then:
//
//	s.Remove(c).IsNonNegative() == true
func (cs Coins) Contains(c Coin) bool {
	has, _ := cs.findCoin(c.Ticker)
	if has == nil {
		return false
	}
	return has.IsGTE(c)
}

// Balance returns the amount of coins of given ticker. Returned coin is zero
// when no coins of that ticker are present.
func (cs Coins) Balance(ticker string) Coin {
	has, _ := cs.findCoin(ticker)
	if has == nil {
		return NewCoin(0, 0, ticker)
	}
	return *has
}

// findCoin returns the coin with the given ticker, along with its index. If no
// coin was found, the index where it should be inserted is returned.
func (cs Coins) findCoin(ticker string) (*Coin, int) {
	i := sort.Search(len(cs), func(i int) bool {
		return cs[i].Ticker >= ticker
	})
	if i < len(cs) && cs[i].Ticker == ticker {
		return cs[i], i
	}
	return nil, i
}

// IsEmpty returns if nothing is in the Coins
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsPositive returns true there is at least one coin
// and all coins are positive
func (cs Coins) IsPositive() bool {
	if cs.IsEmpty() {
		return false
	}
	for _, c := range cs {
		if !c.IsPositive() {
			return false
		}
	}
	return true
}

// IsNonNegative returns true if all coins are positive,
// but also accepts an empty Coins
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsNonNegative() {
			return false
		}
	}
	return true
}

// Equals returns true if all coins are equal. Both sets must be normalized.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate requires that all coins are in alphabetical order
// and that each coin is valid in its own right
//
// Zero amounts should never be stored
func (cs Coins) Validate() error {
	var last string
	for _, c := range cs {
		if c == nil {
			return errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if c.Ticker <= last {
			return errors.Wrap(errors.ErrCurrency, "list not sorted")
		}
		if c.IsZero() {
			return errors.Wrap(errors.ErrAmount, "zero coins")
		}
		last = c.Ticker
	}
	return nil
}

// MarshalCoins writes all coins as repeated embedded message field.
func MarshalCoins(w *codec.Writer, field int, cs Coins) error {
	for _, c := range cs {
		if err := w.Message(field, c); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalCoin reads a single repeated coin field entry and appends it to
// the set.
func UnmarshalCoin(r *codec.Reader, cs Coins) (Coins, error) {
	var c Coin
	if err := r.Message(&c); err != nil {
		return nil, err
	}
	return append(cs, &c), nil
}
