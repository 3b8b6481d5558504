/*
Package app contains the host runtime that processes transactions.

A Ledger serializes all transactions, assigns each delivered transaction a
new height and a block time and runs it inside of a cache wrap, so that its
changes are either written as a whole or not at all. Handlers are resolved
by a Router and wrapped by a chain of decorators:

	handler := app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		app.NewMetrics(prometheus.DefaultRegisterer),
		app.NewSignersDecorator(),
	).WithHandler(router)
	ledger := app.NewLedger(store.MemStore(), handler, inits, clockwork.NewRealClock())
*/
package app
