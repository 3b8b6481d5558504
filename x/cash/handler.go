package cash

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r revsplit.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ revsplit.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and authorized.
func (h SendHandler) Check(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &revsplit.CheckResult{}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &revsplit.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx revsplit.Context, tx revsplit.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := revsplit.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Make sure we have permission from the source.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}
