package x

import (
	"github.com/iov-one/revsplit"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled.
	GetConditions(revsplit.Context) []revsplit.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(revsplit.Context, revsplit.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx revsplit.Context) []revsplit.Condition {
	var res []revsplit.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx revsplit.Context, addr revsplit.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx revsplit.Context, auth Authenticator) revsplit.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}
