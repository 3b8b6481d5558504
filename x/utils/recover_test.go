package utils

import (
	"context"
	"testing"

	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/revsplittest"
	"github.com/iov-one/revsplit/revsplittest/assert"
	"github.com/iov-one/revsplit/store"
)

func TestRecovery(t *testing.T) {
	h := &revsplittest.Handler{Panic: "boom"}
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { _, _ = h.Check(ctx, s, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, s, nil, h)
	assert.IsErr(t, errors.ErrPanic, err)

	_, err = r.Deliver(ctx, s, nil, h)
	assert.IsErr(t, errors.ErrPanic, err)
}

func TestRecoveryPassesResult(t *testing.T) {
	h := &revsplittest.Handler{DeliverErr: errors.ErrNotFound}
	_, err := NewRecovery().Deliver(context.Background(), store.MemStore(), nil, h)
	assert.IsErr(t, errors.ErrNotFound, err)
}
