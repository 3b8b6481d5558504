package cash

import (
	"context"
	"testing"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/revsplittest"
	"github.com/iov-one/revsplit/store"
)

func TestSend(t *testing.T) {
	foo := coin.NewCoin(100, 0, "FOO")
	some := coin.NewCoin(300, 0, "SOME")

	perm := revsplittest.NewCondition()
	perm2 := revsplittest.NewCondition()

	cases := map[string]struct {
		signers        []revsplit.Condition
		initBalance    *coin.Coin
		msg            revsplit.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantDest       coin.Coins
	}{
		"no message": {
			msg:            nil,
			wantCheckErr:   errors.ErrMsg,
			wantDeliverErr: errors.ErrMsg,
		},
		"missing amount": {
			msg:            &SendMsg{Metadata: &revsplit.Metadata{Schema: 1}},
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
		},
		"missing addresses": {
			msg:            &SendMsg{Metadata: &revsplit.Metadata{Schema: 1}, Amount: &foo},
			wantCheckErr:   errors.ErrEmpty,
			wantDeliverErr: errors.ErrEmpty,
		},
		"missing signature": {
			msg: &SendMsg{
				Metadata:    &revsplit.Metadata{Schema: 1},
				Amount:      &foo,
				Source:      perm.Address(),
				Destination: perm2.Address(),
			},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"sender has no account": {
			signers: []revsplit.Condition{perm},
			msg: &SendMsg{
				Metadata:    &revsplit.Metadata{Schema: 1},
				Amount:      &foo,
				Source:      perm.Address(),
				Destination: perm2.Address(),
			},
			wantDeliverErr: ErrEmptyAccount,
		},
		"sender too poor": {
			signers:     []revsplit.Condition{perm},
			initBalance: &some,
			msg: &SendMsg{
				Metadata:    &revsplit.Metadata{Schema: 1},
				Amount:      &foo,
				Source:      perm.Address(),
				Destination: perm2.Address(),
			},
			wantDeliverErr: ErrInsufficientFunds,
		},
		"successful send": {
			signers:     []revsplit.Condition{perm},
			initBalance: &foo,
			msg: &SendMsg{
				Metadata:    &revsplit.Metadata{Schema: 1},
				Amount:      &foo,
				Source:      perm.Address(),
				Destination: perm2.Address(),
				Memo:        "rent",
			},
			wantDest: mustCombineCoins(foo),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &revsplittest.Auth{Signers: tc.signers}
			controller := NewController(NewBucket())
			h := NewSendHandler(auth, controller)

			kv := store.MemStore()
			if tc.initBalance != nil {
				if err := controller.IssueCoins(kv, perm.Address(), *tc.initBalance); err != nil {
					t.Fatalf("cannot issue coins: %s", err)
				}
			}

			tx := &revsplittest.Tx{Msg: tc.msg}
			ctx := context.Background()
			if _, err := h.Check(ctx, kv.CacheWrap(), tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			if _, err := h.Deliver(ctx, kv, tx); !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.wantDest != nil {
				got := getWallet(t, kv, perm2.Address())
				if !tc.wantDest.Equals(got) {
					t.Fatalf("unexpected destination balance: %v", got)
				}
			}
		})
	}
}

func TestSendMsgSerialization(t *testing.T) {
	amount := coin.NewCoin(1, 2, "IOV")
	msg := &SendMsg{
		Metadata:    &revsplit.Metadata{Schema: 1},
		Source:      revsplittest.NewAddress(),
		Destination: revsplittest.NewAddress(),
		Amount:      &amount,
		Memo:        "hello",
	}
	raw, err := msg.Marshal()
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}
	var got SendMsg
	if err := got.Unmarshal(raw); err != nil {
		t.Fatalf("cannot unmarshal: %s", err)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("invalid message: %s", err)
	}
	if !got.Source.Equals(msg.Source) || !got.Destination.Equals(msg.Destination) ||
		!got.Amount.Equals(amount) || got.Memo != msg.Memo {
		t.Fatalf("unexpected message: %#v", got)
	}
}
