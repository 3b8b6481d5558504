package splitter

import "github.com/iov-one/revsplit/errors"

var (
	// ErrPhase is returned when an operation is not allowed in the current
	// router phase.
	ErrPhase = errors.Register(1100, "invalid phase")

	// ErrSplit is returned when a split or its timelock is not acceptable.
	ErrSplit = errors.Register(1101, "invalid split")

	// ErrNotReady is returned when there is no scheduled split that can be
	// applied yet.
	ErrNotReady = errors.Register(1102, "split not ready")

	// ErrNoSchedule is returned when there is no scheduled split to cancel.
	ErrNoSchedule = errors.Register(1103, "no scheduled split")

	// ErrTransfer is returned when moving coins to a destination failed.
	ErrTransfer = errors.Register(1104, "transfer failed")
)
