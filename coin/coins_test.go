package coin

import (
	"testing"

	"github.com/iov-one/revsplit/codec"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/revsplittest/assert"
)

func TestCoinsAdd(t *testing.T) {
	var cs Coins
	var err error

	for _, c := range []Coin{
		NewCoin(2, 0, "USDC"),
		NewCoin(1, 0, "ETH"),
		NewCoin(5, 0, "IOV"),
		NewCoin(0, 0, "BTC"),
		NewCoin(0, 500000000, "ETH"),
	} {
		cs, err = cs.Add(c)
		assert.Nil(t, err)
	}
	assert.Nil(t, cs.Validate())
	assert.Equal(t, Coins{
		NewCoinp(1, 500000000, "ETH"),
		NewCoinp(5, 0, "IOV"),
		NewCoinp(2, 0, "USDC"),
	}, cs)

	// Reaching zero removes the currency.
	cs, err = cs.Subtract(NewCoin(5, 0, "IOV"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoinp(1, 500000000, "ETH"), NewCoinp(2, 0, "USDC")}, cs)

	_, err = cs.Add(NewCoin(MaxInt, 0, "USDC"))
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestCoinsQueries(t *testing.T) {
	cs, err := CombineCoins(NewCoin(10, 0, "USDC"), NewCoin(0, 250000000, "ETH"))
	assert.Nil(t, err)

	assert.Equal(t, true, cs.Contains(NewCoin(10, 0, "USDC")))
	assert.Equal(t, true, cs.Contains(NewCoin(0, 1, "ETH")))
	assert.Equal(t, false, cs.Contains(NewCoin(10, 1, "USDC")))
	assert.Equal(t, false, cs.Contains(NewCoin(1, 0, "IOV")))

	assert.Equal(t, NewCoin(0, 250000000, "ETH"), cs.Balance("ETH"))
	assert.Equal(t, NewCoin(0, 0, "IOV"), cs.Balance("IOV"))

	assert.Equal(t, true, cs.IsPositive())
	assert.Equal(t, true, cs.IsNonNegative())
	assert.Equal(t, false, Coins{}.IsPositive())
	assert.Equal(t, true, Coins{}.IsNonNegative())
	assert.Equal(t, false, Coins{NewCoinp(-1, 0, "ETH")}.IsNonNegative())

	other, err := CombineCoins(NewCoin(0, 250000000, "ETH"), NewCoin(10, 0, "USDC"))
	assert.Nil(t, err)
	assert.Equal(t, true, cs.Equals(other))
	assert.Equal(t, false, cs.Equals(Coins{NewCoinp(10, 0, "USDC")}))
}

func TestCoinsValidate(t *testing.T) {
	cases := map[string]struct {
		coins   Coins
		wantErr *errors.Error
	}{
		"empty":        {coins: nil},
		"sorted":       {coins: Coins{NewCoinp(1, 0, "ETH"), NewCoinp(1, 0, "USDC")}},
		"not sorted":   {coins: Coins{NewCoinp(1, 0, "USDC"), NewCoinp(1, 0, "ETH")}, wantErr: errors.ErrCurrency},
		"duplicated":   {coins: Coins{NewCoinp(1, 0, "ETH"), NewCoinp(1, 0, "ETH")}, wantErr: errors.ErrCurrency},
		"zero value":   {coins: Coins{NewCoinp(0, 0, "ETH")}, wantErr: errors.ErrAmount},
		"nil coin":     {coins: Coins{nil}, wantErr: errors.ErrEmpty},
		"invalid coin": {coins: Coins{NewCoinp(1, 0, "eth")}, wantErr: errors.ErrCurrency},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.coins.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestCoinsClone(t *testing.T) {
	cs := Coins{NewCoinp(1, 0, "ETH")}
	cpy := cs.Clone()
	cpy[0].Whole = 2
	assert.Equal(t, int64(1), cs[0].Whole)
	assert.Equal(t, Coins(nil), Coins(nil).Clone())
}

func TestCoinsSerialization(t *testing.T) {
	cs := Coins{NewCoinp(1, 2, "ETH"), NewCoinp(3, 0, "USDC")}

	w := codec.NewWriter()
	assert.Nil(t, MarshalCoins(w, 1, cs))

	var got Coins
	r := codec.NewReader(w.Result())
	for r.More() {
		field, _, err := r.Tag()
		assert.Nil(t, err)
		assert.Equal(t, 1, field)
		got, err = UnmarshalCoin(r, got)
		assert.Nil(t, err)
	}
	assert.Equal(t, cs, got)
}
