package cash

import (
	"github.com/iov-one/revsplit/errors"
)

var (
	// ErrEmptyAccount is returned when a source account holds no coins.
	ErrEmptyAccount = errors.Register(1010, "empty account")

	// ErrInsufficientFunds is returned when an account does not hold
	// enough coins of the requested ticker.
	ErrInsufficientFunds = errors.Register(1011, "insufficient funds")
)
