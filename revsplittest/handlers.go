package revsplittest

import "github.com/iov-one/revsplit"

// Handler is a mock implementation of the revsplit.Handler interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// Each method call is counted.
type Handler struct {
	checkCall   int
	CheckResult revsplit.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult revsplit.DeliverResult
	DeliverErr    error

	// Panic if set makes both methods panic with this value.
	Panic interface{}
	// Write if set is stored under the WriteKey before returning.
	WriteKey, WriteValue []byte
}

var _ revsplit.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	h.checkCall++
	if h.Panic != nil {
		panic(h.Panic)
	}
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	h.deliverCall++
	if h.Panic != nil {
		panic(h.Panic)
	}
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db revsplit.KVStore) error {
	if h.WriteKey == nil {
		return nil
	}
	return db.Set(h.WriteKey, h.WriteValue)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
