package revsplittest

import "github.com/iov-one/revsplit"

// Decorator is a mock implementation of the revsplit.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ revsplit.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx, next revsplit.Checker) (*revsplit.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx, next revsplit.Deliverer) (*revsplit.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls given decorator with given handler
// as the next element.
func Decorate(h revsplit.Handler, d revsplit.Decorator) revsplit.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn revsplit.Handler
	dc revsplit.Decorator
}

var _ revsplit.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
