package splitter

import (
	"time"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/gconf"
	"github.com/iov-one/revsplit/x"
)

// RegisterRoutes registers handlers for router message processing.
func RegisterRoutes(r revsplit.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(pathEnterTransitionMsg, &enterTransitionHandler{ctrl: ctrl})
	r.Handle(pathScheduleSplitMsg, &scheduleSplitHandler{ctrl: ctrl})
	r.Handle(pathApplySplitMsg, &applySplitHandler{ctrl: ctrl})
	r.Handle(pathCancelScheduledSplitMsg, &cancelScheduledSplitHandler{ctrl: ctrl})
	r.Handle(pathActivatePermanentMsg, &activatePermanentHandler{ctrl: ctrl})
	r.Handle(pathUpdateWalletsMsg, &updateWalletsHandler{ctrl: ctrl})
	r.Handle(pathDistributeMsg, &distributeHandler{ctrl: ctrl})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

// operation is a single router operation, executed for a loaded message.
// Handlers execute the whole operation in both Check and Deliver. The host
// runs Check on a store that is discarded afterwards, so only Deliver
// reports the resulting events.
type operation func(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error)

func check(ctx revsplit.Context, db revsplit.KVStore, op operation) (*revsplit.CheckResult, error) {
	if _, err := op(ctx, db); err != nil {
		return nil, err
	}
	return &revsplit.CheckResult{}, nil
}

func deliver(ctx revsplit.Context, db revsplit.KVStore, ctrl *Controller, op operation) (*revsplit.DeliverResult, error) {
	events, err := op(ctx, db)
	if err != nil {
		return nil, err
	}
	ctrl.Report(ctx, events)
	return &revsplit.DeliverResult{
		Tags:   eventTags(events),
		Events: events,
	}, nil
}

type enterTransitionHandler struct {
	ctrl *Controller
}

func (h *enterTransitionHandler) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return check(ctx, db, op)
}

func (h *enterTransitionHandler) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return deliver(ctx, db, h.ctrl, op)
}

func (h *enterTransitionHandler) validate(tx revsplit.Tx) (operation, error) {
	var msg EnterTransitionMsg
	if err := revsplit.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return h.ctrl.EnterTransitionPhase, nil
}

type scheduleSplitHandler struct {
	ctrl *Controller
}

func (h *scheduleSplitHandler) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return check(ctx, db, op)
}

func (h *scheduleSplitHandler) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return deliver(ctx, db, h.ctrl, op)
}

func (h *scheduleSplitHandler) validate(tx revsplit.Tx) (operation, error) {
	var msg ScheduleSplitMsg
	if err := revsplit.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	timelock := time.Duration(msg.Timelock) * time.Second
	return func(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error) {
		return h.ctrl.ScheduleSplit(ctx, db, *msg.Split, timelock)
	}, nil
}

type applySplitHandler struct {
	ctrl *Controller
}

func (h *applySplitHandler) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return check(ctx, db, op)
}

func (h *applySplitHandler) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return deliver(ctx, db, h.ctrl, op)
}

func (h *applySplitHandler) validate(tx revsplit.Tx) (operation, error) {
	var msg ApplySplitMsg
	if err := revsplit.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return h.ctrl.ApplySplit, nil
}

type cancelScheduledSplitHandler struct {
	ctrl *Controller
}

func (h *cancelScheduledSplitHandler) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return check(ctx, db, op)
}

func (h *cancelScheduledSplitHandler) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return deliver(ctx, db, h.ctrl, op)
}

func (h *cancelScheduledSplitHandler) validate(tx revsplit.Tx) (operation, error) {
	var msg CancelScheduledSplitMsg
	if err := revsplit.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return h.ctrl.CancelScheduledSplit, nil
}

type activatePermanentHandler struct {
	ctrl *Controller
}

func (h *activatePermanentHandler) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return check(ctx, db, op)
}

func (h *activatePermanentHandler) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return deliver(ctx, db, h.ctrl, op)
}

func (h *activatePermanentHandler) validate(tx revsplit.Tx) (operation, error) {
	var msg ActivatePermanentMsg
	if err := revsplit.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return func(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error) {
		return h.ctrl.ActivatePermanentSplit(ctx, db, *msg.Split)
	}, nil
}

type updateWalletsHandler struct {
	ctrl *Controller
}

func (h *updateWalletsHandler) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return check(ctx, db, op)
}

func (h *updateWalletsHandler) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return deliver(ctx, db, h.ctrl, op)
}

func (h *updateWalletsHandler) validate(tx revsplit.Tx) (operation, error) {
	var msg UpdateWalletsMsg
	if err := revsplit.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return func(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error) {
		return h.ctrl.UpdateWallets(ctx, db, *msg.Wallets)
	}, nil
}

type distributeHandler struct {
	ctrl *Controller
}

func (h *distributeHandler) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.CheckResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return check(ctx, db, op)
}

func (h *distributeHandler) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	op, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	return deliver(ctx, db, h.ctrl, op)
}

func (h *distributeHandler) validate(tx revsplit.Tx) (operation, error) {
	var msg DistributeMsg
	if err := revsplit.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	switch msg.Asset {
	case AssetStable:
		return h.ctrl.DistributeUSDC, nil
	case AssetNative:
		return h.ctrl.DistributeETH, nil
	default:
		return func(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error) {
			return h.ctrl.DistributeToken(ctx, db, msg.Ticker)
		}, nil
	}
}
