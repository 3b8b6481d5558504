package cash

import (
	"testing"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
	"github.com/stretchr/testify/require"
)

func TestSetValidation(t *testing.T) {
	cases := map[string]struct {
		set     Set
		wantErr *errors.Error
	}{
		"valid": {
			set: Set{
				Metadata: &revsplit.Metadata{Schema: 1},
				Coins:    mustCombineCoins(coin.NewCoin(1, 0, "ETH")),
			},
		},
		"missing metadata": {
			set:     Set{Coins: mustCombineCoins(coin.NewCoin(1, 0, "ETH"))},
			wantErr: errors.ErrMetadata,
		},
		"unsorted coins": {
			set: Set{
				Metadata: &revsplit.Metadata{Schema: 1},
				Coins:    coin.Coins{coin.NewCoinp(1, 0, "IOV"), coin.NewCoinp(1, 0, "ETH")},
			},
			wantErr: errors.ErrCurrency,
		},
		"zero coin": {
			set: Set{
				Metadata: &revsplit.Metadata{Schema: 1},
				Coins:    coin.Coins{coin.NewCoinp(0, 0, "IOV")},
			},
			wantErr: errors.ErrAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.set.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestSetSerialization(t *testing.T) {
	set := &Set{
		Metadata: &revsplit.Metadata{Schema: 1},
		Coins:    mustCombineCoins(coin.NewCoin(1, 2, "ETH"), coin.NewCoin(3, 0, "IOV")),
	}
	raw, err := set.Marshal()
	require.NoError(t, err)

	var got Set
	require.NoError(t, got.Unmarshal(raw))
	require.Equal(t, set, &got)

	cpy := set.Copy()
	cpy.Coins[0].Whole = 100
	require.Equal(t, int64(1), set.Coins[0].Whole)
}
