package app

import (
	"context"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/x"
)

// Tx is the transaction submitted to the Ledger. Signers are the conditions
// the host verified before accepting the transaction.
type Tx struct {
	Signers []revsplit.Condition
	Msg     revsplit.Msg
}

var _ revsplit.Tx = (*Tx)(nil)
var _ SignedTx = (*Tx)(nil)

// NewTx returns a transaction carrying given message signed by given
// conditions.
func NewTx(msg revsplit.Msg, signers ...revsplit.Condition) *Tx {
	return &Tx{Signers: signers, Msg: msg}
}

// GetMsg returns the message carried by this transaction.
func (tx *Tx) GetMsg() (revsplit.Msg, error) {
	return tx.Msg, nil
}

// GetSigners returns all conditions that signed this transaction.
func (tx *Tx) GetSigners() []revsplit.Condition {
	return tx.Signers
}

// SignedTx is implemented by any transaction that carries verified signers.
type SignedTx interface {
	revsplit.Tx
	GetSigners() []revsplit.Condition
}

type contextKey int

const contextKeySigners contextKey = iota

// SignersDecorator puts the signers of a SignedTx into the context, so that
// TxAuth can authenticate them.
type SignersDecorator struct{}

var _ revsplit.Decorator = SignersDecorator{}

// NewSignersDecorator returns a decorator that exposes transaction signers.
func NewSignersDecorator() SignersDecorator {
	return SignersDecorator{}
}

// Check exposes the signers to the next handler.
func (SignersDecorator) Check(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx, next revsplit.Checker) (*revsplit.CheckResult, error) {
	return next.Check(withSigners(ctx, tx), store, tx)
}

// Deliver exposes the signers to the next handler.
func (SignersDecorator) Deliver(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx, next revsplit.Deliverer) (*revsplit.DeliverResult, error) {
	return next.Deliver(withSigners(ctx, tx), store, tx)
}

func withSigners(ctx revsplit.Context, tx revsplit.Tx) revsplit.Context {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx
	}
	return context.WithValue(ctx, contextKeySigners, stx.GetSigners())
}

// TxAuth authenticates the signers exposed by SignersDecorator.
type TxAuth struct{}

var _ x.Authenticator = TxAuth{}

// GetConditions returns the signers of the currently processed transaction.
func (TxAuth) GetConditions(ctx revsplit.Context) []revsplit.Condition {
	val, _ := ctx.Value(contextKeySigners).([]revsplit.Condition)
	return val
}

// HasAddress returns true if any of the transaction signers has given
// address.
func (a TxAuth) HasAddress(ctx revsplit.Context, addr revsplit.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
