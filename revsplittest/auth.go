package revsplittest

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/iov-one/revsplit"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer revsplit.Condition

	// Signers represents an authentication of multiple signers.
	Signers []revsplit.Condition
}

func (a *Auth) GetConditions(revsplit.Context) []revsplit.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx revsplit.Context, addr revsplit.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx revsplit.Context, permissions ...revsplit.Condition) revsplit.Context {
	return context.WithValue(ctx, a.Key, permissions)
}

func (a *CtxAuth) GetConditions(ctx revsplit.Context) []revsplit.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]revsplit.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []revsplit.Condition got %T", ctx.Value(a.Key)))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx revsplit.Context, addr revsplit.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

var condSeq uint64

// NewCondition returns a unique condition. Each call returns a condition that
// was never returned before.
func NewCondition() revsplit.Condition {
	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, atomic.AddUint64(&condSeq, 1))
	return revsplit.NewCondition("test", "seq", seq)
}

// NewAddress returns the address of a unique condition.
func NewAddress() revsplit.Address {
	return NewCondition().Address()
}
