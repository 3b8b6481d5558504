/*
Package app links together all the various components
to construct the revsplitd ledger.
*/
package app

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/app"
	"github.com/iov-one/revsplit/store"
	"github.com/iov-one/revsplit/x"
	"github.com/iov-one/revsplit/x/cash"
	"github.com/iov-one/revsplit/x/splitter"
	"github.com/iov-one/revsplit/x/utils"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the authentication used by all handlers. Signers
// are verified by the host before a transaction reaches the ledger.
func Authenticator() x.Authenticator {
	return x.ChainAuth(app.TxAuth{})
}

// Chain returns a chain of decorators, to handle signers, logging,
// recovery and metrics.
func Chain(reg prometheus.Registerer) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		app.NewMetrics(reg),
		utils.NewActionTagger(),
		utils.NewKeyTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		app.NewSignersDecorator(),
	)
}

// Router returns a router dispatching to cash and splitter handlers.
func Router(authFn x.Authenticator, ctrl *splitter.Controller) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, cash.NewController(cash.NewBucket()))
	splitter.RegisterRoutes(r, authFn, ctrl)
	return r
}

// Controller returns the router controller reporting to given metrics.
func Controller(authFn x.Authenticator, m *splitter.Metrics) *splitter.Controller {
	ctrl := splitter.NewController(
		cash.NewController(cash.NewBucket()),
		splitter.NewConfiguredRoles(authFn),
		authFn,
	)
	return ctrl.WithMetrics(m)
}

// Initializers returns the genesis initializers of all extensions. Cash
// goes first so that the router account can be funded at genesis.
func Initializers(m *splitter.Metrics) revsplit.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		&splitter.Initializer{Metrics: m},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into a Ledger.
func Stack(reg prometheus.Registerer, m *splitter.Metrics) revsplit.Handler {
	authFn := Authenticator()
	return Chain(reg).WithHandler(Router(authFn, Controller(authFn, m)))
}

// Application constructs an in memory ledger with the whole stack. If db is
// nil, a new memory store is used.
func Application(db revsplit.CacheableKVStore, clock clockwork.Clock, reg prometheus.Registerer) *app.Ledger {
	if db == nil {
		db = store.MemStore()
	}
	m := splitter.NewMetrics(reg)
	return app.NewLedger(db, Stack(reg, m), Initializers(m), clock)
}
