package cash

import (
	"testing"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/revsplittest"
	"github.com/iov-one/revsplit/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getWallet(t testing.TB, kv revsplit.ReadOnlyKVStore, addr revsplit.Address) coin.Coins {
	t.Helper()
	coins, err := NewController(NewBucket()).Balance(kv, addr)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	require.NoError(t, err)
	return coins
}

func TestIssueCoins(t *testing.T) {
	kv := store.MemStore()
	addr := revsplittest.NewAddress()
	addr2 := revsplittest.NewAddress()

	controller := NewController(NewBucket())

	plus := coin.NewCoin(500, 1000, "FOO")
	minus := coin.NewCoin(-400, -600, "FOO")
	total := coin.NewCoin(100, 400, "FOO")
	other := coin.NewCoin(1, 0, "DING")

	assert.Nil(t, getWallet(t, kv, addr))
	assert.Nil(t, getWallet(t, kv, addr2))

	// issue positive
	require.NoError(t, controller.IssueCoins(kv, addr, plus))
	w := getWallet(t, kv, addr)
	require.NotNil(t, w)
	assert.True(t, w.Contains(plus), "%#v", w)
	assert.True(t, w.Contains(total))
	assert.False(t, w.Contains(other))
	assert.Nil(t, getWallet(t, kv, addr2))

	// issue negative
	require.NoError(t, controller.IssueCoins(kv, addr, minus))
	w = getWallet(t, kv, addr)
	require.NotNil(t, w)
	assert.False(t, w.Contains(plus))
	assert.True(t, w.Contains(total))
	assert.False(t, w.Contains(other))

	// issue to other wallet
	require.NoError(t, controller.IssueCoins(kv, addr2, other))
	w2 := getWallet(t, kv, addr2)
	require.NotNil(t, w2)
	assert.False(t, w2.Contains(total))
	assert.True(t, w2.Contains(other))

	// set to zero removes the account
	require.NoError(t, controller.IssueCoins(kv, addr2, other.Negative()))
	assert.Nil(t, getWallet(t, kv, addr2))

	// taking more than there is is rejected
	err := controller.IssueCoins(kv, addr2, other.Negative())
	assert.True(t, ErrInsufficientFunds.Is(err), "%+v", err)

	// overflow is rejected
	err = controller.IssueCoins(kv, addr, coin.NewCoin(coin.MaxInt, 0, "FOO"))
	assert.True(t, errors.ErrOverflow.Is(err), "%+v", err)
	w = getWallet(t, kv, addr)
	assert.True(t, w.Equals(mustCombineCoins(total)))
}

func TestMoveCoins(t *testing.T) {
	kv := store.MemStore()
	addr := revsplittest.NewAddress()
	addr2 := revsplittest.NewAddress()
	addr3 := revsplittest.NewAddress()

	controller := NewController(NewBucket())

	cc := "MONY"
	bank := coin.NewCoin(50000, 0, cc)
	send := coin.NewCoin(300, 0, cc)

	// can't send empty
	err := controller.MoveCoins(kv, addr, addr2, send)
	assert.True(t, ErrEmptyAccount.Is(err), "%+v", err)
	// so we issue money
	require.NoError(t, controller.IssueCoins(kv, addr, bank))

	// proper move
	require.NoError(t, controller.MoveCoins(kv, addr, addr2, send))
	w := getWallet(t, kv, addr)
	assert.True(t, w.Equals(mustCombineCoins(coin.NewCoin(49700, 0, cc))))
	w2 := getWallet(t, kv, addr2)
	assert.True(t, w2.Equals(mustCombineCoins(send)))
	assert.Nil(t, getWallet(t, kv, addr3))

	// cannot send negative, zero
	err = controller.MoveCoins(kv, addr2, addr3, send.Negative())
	assert.True(t, errors.ErrAmount.Is(err))
	err = controller.MoveCoins(kv, addr2, addr3, coin.NewCoin(0, 0, cc))
	assert.True(t, errors.ErrAmount.Is(err))

	// cannot send too much or no currency
	err = controller.MoveCoins(kv, addr2, addr3, bank)
	assert.True(t, ErrInsufficientFunds.Is(err))
	err = controller.MoveCoins(kv, addr2, addr3, coin.NewCoin(5, 0, "BAD"))
	assert.True(t, ErrInsufficientFunds.Is(err))
	w2 = getWallet(t, kv, addr2)
	assert.True(t, w2.Equals(mustCombineCoins(send)))

	// sending to self changes nothing
	require.NoError(t, controller.MoveCoins(kv, addr2, addr2, send))
	w2 = getWallet(t, kv, addr2)
	assert.True(t, w2.Equals(mustCombineCoins(send)))

	// send all coins
	require.NoError(t, controller.MoveCoins(kv, addr2, addr3, send))
	assert.Nil(t, getWallet(t, kv, addr2))
	w3 := getWallet(t, kv, addr3)
	assert.True(t, w3.Equals(mustCombineCoins(send)))
}

// mustCombineCoins has one return value for tests...
func mustCombineCoins(cs ...coin.Coin) coin.Coins {
	s, err := coin.CombineCoins(cs...)
	if err != nil {
		panic(err)
	}
	return s
}
