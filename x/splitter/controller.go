package splitter

import (
	"time"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/orm"
	"github.com/iov-one/revsplit/x"
)

// CashController allows to manage coins stored by the accounts without the
// need to directly access the bucket.
// Required functionality is implemented by the x/cash extension.
type CashController interface {
	Balance(revsplit.ReadOnlyKVStore, revsplit.Address) (coin.Coins, error)
	MoveCoins(revsplit.KVStore, revsplit.Address, revsplit.Address, coin.Coin) error
}

// Controller implements all router operations. Operations that modify the
// state return events describing the change. Operations run in both Check
// and Deliver, so they never report metrics. Call Report with the events of
// a delivered operation instead.
//
// Privileged operations check the role of the signer first and only then
// whether the operation is allowed in the current phase.
type Controller struct {
	routers orm.ModelBucket
	history orm.ModelBucket
	seq     orm.Sequence
	cash    CashController
	roles   RoleChecker
	auth    x.Authenticator
	metrics *Metrics
}

// NewController returns a controller moving coins with given cash
// controller. Authenticator is used only to attribute events to the main
// signer.
func NewController(cash CashController, roles RoleChecker, auth x.Authenticator) *Controller {
	return &Controller{
		routers: NewRouterBucket(),
		history: NewHistoryBucket(),
		seq:     newHistorySequence(),
		cash:    cash,
		roles:   roles,
		auth:    auth,
	}
}

// WithMetrics sets the metrics the controller reports to and returns the
// controller.
func (c *Controller) WithMetrics(m *Metrics) *Controller {
	c.metrics = m
	return c
}

// Create initializes a router in the survival phase, with the founder
// receiving the whole revenue.
func (c *Controller) Create(ctx revsplit.Context, db revsplit.KVStore, wallets *Wallets) error {
	switch err := c.routers.Has(db, routerKey); {
	case err == nil:
		return errors.Wrap(errors.ErrDuplicate, "router already exists")
	case !errors.ErrNotFound.Is(err):
		return err
	}
	r := &Router{
		Metadata: &revsplit.Metadata{Schema: 1},
		Phase:    PhaseSurvival,
		Split:    InitialSplit(),
		Wallets:  wallets.Copy(),
	}
	if err := c.routers.Put(db, routerKey, r); err != nil {
		return errors.Wrap(err, "save router")
	}
	if err := c.record(ctx, db, r, CauseGenesis); err != nil {
		return err
	}
	c.metrics.observePhase(r.Phase)
	return nil
}

// Router returns the current router state.
func (c *Controller) Router(db revsplit.ReadOnlyKVStore) (*Router, error) {
	var r Router
	if err := c.routers.One(db, routerKey, &r); err != nil {
		return nil, errors.Wrap(err, "load router")
	}
	return &r, nil
}

// CurrentPhase returns the phase the router is in.
func (c *Controller) CurrentPhase(db revsplit.ReadOnlyKVStore) (Phase, error) {
	r, err := c.Router(db)
	if err != nil {
		return 0, err
	}
	return r.Phase, nil
}

// FounderWallet returns the founder destination address.
func (c *Controller) FounderWallet(db revsplit.ReadOnlyKVStore) (revsplit.Address, error) {
	r, err := c.Router(db)
	if err != nil {
		return nil, err
	}
	return r.Wallets.Founder, nil
}

// DaoTreasury returns the DAO treasury destination address.
func (c *Controller) DaoTreasury(db revsplit.ReadOnlyKVStore) (revsplit.Address, error) {
	r, err := c.Router(db)
	if err != nil {
		return nil, err
	}
	return r.Wallets.Dao, nil
}

// CharitySafe returns the charity destination address.
func (c *Controller) CharitySafe(db revsplit.ReadOnlyKVStore) (revsplit.Address, error) {
	r, err := c.Router(db)
	if err != nil {
		return nil, err
	}
	return r.Wallets.Charity, nil
}

// CurrentSplit returns the split used for distribution.
func (c *Controller) CurrentSplit(db revsplit.ReadOnlyKVStore) (Split, error) {
	r, err := c.Router(db)
	if err != nil {
		return Split{}, err
	}
	return *r.Split, nil
}

// ScheduledSplit returns the pending split proposal. The second value is
// false if no split is scheduled.
func (c *Controller) ScheduledSplit(db revsplit.ReadOnlyKVStore) (ScheduledSplit, bool, error) {
	r, err := c.Router(db)
	if err != nil {
		return ScheduledSplit{}, false, err
	}
	if r.Scheduled == nil {
		return ScheduledSplit{}, false, nil
	}
	return *r.Scheduled.Copy(), true, nil
}

// Pending returns the amount of given currency held by the router and not
// distributed yet.
func (c *Controller) Pending(db revsplit.ReadOnlyKVStore, ticker string) (coin.Coin, error) {
	if !coin.IsCC(ticker) {
		return coin.Coin{}, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
	}
	coins, err := c.cash.Balance(db, RouterAccount())
	switch {
	case err == nil:
		return coins.Balance(ticker), nil
	case errors.ErrNotFound.Is(err):
		return coin.NewCoin(0, 0, ticker), nil
	default:
		return coin.Coin{}, errors.Wrap(err, "router balance")
	}
}

// PendingUSDC returns the undistributed stable coin balance.
func (c *Controller) PendingUSDC(db revsplit.ReadOnlyKVStore) (coin.Coin, error) {
	conf, err := loadConf(db)
	if err != nil {
		return coin.Coin{}, err
	}
	return c.Pending(db, conf.StableTicker)
}

// PendingETH returns the undistributed native asset balance.
func (c *Controller) PendingETH(db revsplit.ReadOnlyKVStore) (coin.Coin, error) {
	conf, err := loadConf(db)
	if err != nil {
		return coin.Coin{}, err
	}
	return c.Pending(db, conf.NativeTicker)
}

// CalculateDistribution returns how given amount would be divided using
// the current split. State is not modified.
func (c *Controller) CalculateDistribution(db revsplit.ReadOnlyKVStore, total coin.Coin) (Shares, error) {
	r, err := c.Router(db)
	if err != nil {
		return Shares{}, err
	}
	return r.Split.Calculate(total)
}

// History returns all splits that were active, oldest first.
func (c *Controller) History(db revsplit.ReadOnlyKVStore) ([]*HistoryEntry, error) {
	var entries []*HistoryEntry
	err := c.history.Each(db, func(key []byte, m orm.Model) error {
		entries = append(entries, m.(*HistoryEntry))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "load history")
	}
	return entries, nil
}

// Report records metrics and logs milestones for the events of a delivered
// operation.
func (c *Controller) Report(ctx revsplit.Context, events []revsplit.Event) {
	logger := revsplit.GetLogger(ctx)
	for _, e := range events {
		switch e := e.(type) {
		case PhaseChangedEvent:
			c.metrics.observePhase(e.To)
			logger.Info("Router phase changed", "from", e.From, "to", e.To)
		case SplitScheduledEvent:
			logger.Debug("Split scheduled", "split", e.Scheduled.Split, "effective_at", e.Scheduled.EffectiveAt)
		case SplitAppliedEvent:
			logger.Info("Split applied", "previous", e.Previous, "split", e.Split)
		case PermanentActivatedEvent:
			logger.Info("Permanent split activated", "split", e.Split, "previous", e.Previous)
		case DistributionEvent:
			c.metrics.observeDistribution(e.Ticker, e.Shares)
			logger.Info("Revenue distributed", "ticker", e.Ticker, "total", e.Total, "split", e.Split)
		}
	}
}

// EnterTransitionPhase moves the router from the survival to the
// transition phase. Only the governor is allowed to do this.
func (c *Controller) EnterTransitionPhase(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error) {
	if err := requireRole(ctx, db, c.roles, roleGovernor); err != nil {
		return nil, err
	}
	r, st, err := c.load(db)
	if err != nil {
		return nil, err
	}
	t, ok := st.(transitioner)
	if !ok {
		return nil, errors.Wrapf(ErrPhase, "cannot enter transition from %s", st.Phase())
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}

	from := r.Phase
	r.Phase = t.enterTransition().Phase()
	if err := c.save(db, r); err != nil {
		return nil, err
	}

	return []revsplit.Event{
		PhaseChangedEvent{From: from, To: r.Phase, Actor: c.actor(ctx), At: now},
	}, nil
}

// ScheduleSplit proposes a split that can be applied once the timelock
// elapsed. A pending proposal is replaced. Only the governor is allowed to
// schedule and only in the transition phase.
func (c *Controller) ScheduleSplit(ctx revsplit.Context, db revsplit.KVStore, split Split, timelock time.Duration) ([]revsplit.Event, error) {
	if err := requireRole(ctx, db, c.roles, roleGovernor); err != nil {
		return nil, err
	}
	r, st, err := c.load(db)
	if err != nil {
		return nil, err
	}
	if _, ok := st.(scheduler); !ok {
		return nil, errors.Wrapf(ErrPhase, "cannot schedule a split in %s", st.Phase())
	}
	if err := split.Validate(); err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if minimum := conf.MinTimelockDuration(); timelock < minimum {
		return nil, errors.Wrapf(ErrSplit, "timelock %s is shorter than %s", timelock, minimum)
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}

	replaced := r.Scheduled
	r.Scheduled = &ScheduledSplit{
		Split:       split.Copy(),
		EffectiveAt: now.Add(timelock),
		ScheduledAt: now,
	}
	if err := c.save(db, r); err != nil {
		return nil, err
	}

	return []revsplit.Event{
		SplitScheduledEvent{
			Scheduled: *r.Scheduled.Copy(),
			Replaced:  replaced,
			Active:    *r.Split,
			Actor:     c.actor(ctx),
			At:        now,
		},
	}, nil
}

// ApplySplit makes the scheduled split active. Anyone can apply a split
// once its timelock elapsed.
func (c *Controller) ApplySplit(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error) {
	r, st, err := c.load(db)
	if err != nil {
		return nil, err
	}
	if _, ok := st.(applier); !ok {
		return nil, errors.Wrapf(ErrPhase, "cannot apply a split in %s", st.Phase())
	}
	if r.Scheduled == nil {
		return nil, errors.Wrap(ErrNotReady, "no split scheduled")
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}
	if now < r.Scheduled.EffectiveAt {
		return nil, errors.Wrapf(ErrNotReady, "timelock elapses at %s", r.Scheduled.EffectiveAt)
	}

	previous := *r.Split
	applied := r.Scheduled
	r.Split = applied.Split.Copy()
	r.Scheduled = nil
	if err := c.save(db, r); err != nil {
		return nil, err
	}
	if err := c.record(ctx, db, r, CauseApplied); err != nil {
		return nil, err
	}

	return []revsplit.Event{
		SplitAppliedEvent{
			Previous:    previous,
			Split:       *r.Split,
			EffectiveAt: applied.EffectiveAt,
			Actor:       c.actor(ctx),
			At:          now,
		},
	}, nil
}

// CancelScheduledSplit drops the pending split proposal. Both the governor
// and the admin are allowed to cancel.
func (c *Controller) CancelScheduledSplit(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error) {
	if err := requireRole(ctx, db, c.roles, roleGovernor|roleAdmin); err != nil {
		return nil, err
	}
	r, st, err := c.load(db)
	if err != nil {
		return nil, err
	}
	if _, ok := st.(scheduler); !ok {
		return nil, errors.Wrapf(ErrPhase, "cannot cancel a split in %s", st.Phase())
	}
	if r.Scheduled == nil {
		return nil, errors.Wrap(ErrNoSchedule, "nothing to cancel")
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}

	cancelled := r.Scheduled
	r.Scheduled = nil
	if err := c.save(db, r); err != nil {
		return nil, err
	}

	return []revsplit.Event{
		SplitCancelledEvent{Cancelled: *cancelled, Actor: c.actor(ctx), At: now},
	}, nil
}

// ActivatePermanentSplit sets the final split and moves the router into
// the permanent phase. Any scheduled split is dropped. This cannot be
// undone. Only the admin is allowed to activate.
func (c *Controller) ActivatePermanentSplit(ctx revsplit.Context, db revsplit.KVStore, split Split) ([]revsplit.Event, error) {
	if err := requireRole(ctx, db, c.roles, roleAdmin); err != nil {
		return nil, err
	}
	r, st, err := c.load(db)
	if err != nil {
		return nil, err
	}
	a, ok := st.(activator)
	if !ok {
		return nil, errors.Wrapf(ErrPhase, "cannot activate permanent split in %s", st.Phase())
	}
	if err := split.ValidatePermanent(); err != nil {
		return nil, err
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}

	from := r.Phase
	previous := *r.Split
	cancelled := r.Scheduled
	r.Phase = a.activatePermanent().Phase()
	r.Split = split.Copy()
	r.Scheduled = nil
	if err := c.save(db, r); err != nil {
		return nil, err
	}
	if err := c.record(ctx, db, r, CausePermanent); err != nil {
		return nil, err
	}

	actor := c.actor(ctx)
	return []revsplit.Event{
		PermanentActivatedEvent{
			Previous:  previous,
			Split:     *r.Split,
			Cancelled: cancelled,
			Actor:     actor,
			At:        now,
		},
		PhaseChangedEvent{From: from, To: r.Phase, Actor: actor, At: now},
	}, nil
}

// UpdateWallets changes the destination wallets. Only the admin is allowed
// to do this and never in the permanent phase.
func (c *Controller) UpdateWallets(ctx revsplit.Context, db revsplit.KVStore, wallets Wallets) ([]revsplit.Event, error) {
	if err := requireRole(ctx, db, c.roles, roleAdmin); err != nil {
		return nil, err
	}
	r, st, err := c.load(db)
	if err != nil {
		return nil, err
	}
	if _, ok := st.(walletEditor); !ok {
		return nil, errors.Wrapf(ErrPhase, "cannot update wallets in %s", st.Phase())
	}
	if err := wallets.Validate(); err != nil {
		return nil, err
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}

	previous := *r.Wallets
	r.Wallets = wallets.Copy()
	if err := c.save(db, r); err != nil {
		return nil, err
	}

	return []revsplit.Event{
		WalletsUpdatedEvent{
			Previous: previous,
			Wallets:  *r.Wallets.Copy(),
			Actor:    c.actor(ctx),
			At:       now,
		},
	}, nil
}

// DistributeUSDC distributes the stable coin balance of the router.
func (c *Controller) DistributeUSDC(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	return c.DistributeToken(ctx, db, conf.StableTicker)
}

// DistributeETH distributes the native asset balance of the router.
func (c *Controller) DistributeETH(ctx revsplit.Context, db revsplit.KVStore) ([]revsplit.Event, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	return c.DistributeToken(ctx, db, conf.NativeTicker)
}

// DistributeToken sends the whole router balance of given currency to the
// destination wallets, according to the current split. Distribution is
// allowed in any phase and to anyone.
//
// If the router holds no coins of that currency, nothing happens and no
// event is emitted. Either all transfers succeed or none is made.
func (c *Controller) DistributeToken(ctx revsplit.Context, db revsplit.KVStore, ticker string) ([]revsplit.Event, error) {
	r, err := c.Router(db)
	if err != nil {
		return nil, err
	}
	total, err := c.Pending(db, ticker)
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return nil, nil
	}
	shares, err := r.Split.Calculate(total)
	if err != nil {
		return nil, errors.Wrap(err, "calculate shares")
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.distribute(db, r.Wallets, shares); err != nil {
		return nil, err
	}

	return []revsplit.Event{
		DistributionEvent{
			Ticker:  ticker,
			Total:   total,
			Shares:  shares,
			Split:   *r.Split,
			Wallets: *r.Wallets.Copy(),
			Actor:   c.actor(ctx),
			At:      now,
		},
	}, nil
}

// distribute moves all shares from the router account. When the store can
// be cache wrapped, transfers are written only if all of them succeeded.
// Otherwise the caller is responsible for discarding a failed transaction.
func (c *Controller) distribute(db revsplit.KVStore, w *Wallets, s Shares) error {
	cstore, ok := db.(revsplit.CacheableKVStore)
	if !ok {
		return c.transfer(db, w, s)
	}
	cache := cstore.CacheWrap()
	if err := c.transfer(cache, w, s); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (c *Controller) transfer(db revsplit.KVStore, w *Wallets, s Shares) error {
	router := RouterAccount()
	moves := []struct {
		name   string
		dest   revsplit.Address
		amount coin.Coin
	}{
		{"founder", w.Founder, s.Founder},
		{"dao", w.Dao, s.Dao},
		{"charity", w.Charity, s.Charity},
	}
	for _, m := range moves {
		// Shares are never negative. A zero share is not a transfer.
		if !m.amount.IsPositive() {
			continue
		}
		if err := c.cash.MoveCoins(db, router, m.dest, m.amount); err != nil {
			return errors.Wrapf(ErrTransfer, "%s %s: %s", m.name, m.amount, err)
		}
	}
	return nil
}

func (c *Controller) load(db revsplit.ReadOnlyKVStore) (*Router, stage, error) {
	r, err := c.Router(db)
	if err != nil {
		return nil, nil, err
	}
	st, err := r.stage()
	if err != nil {
		return nil, nil, err
	}
	return r, st, nil
}

func (c *Controller) save(db revsplit.KVStore, r *Router) error {
	if err := c.routers.Put(db, routerKey, r); err != nil {
		return errors.Wrap(err, "save router")
	}
	return nil
}

// record appends the active split of given router to the history.
func (c *Controller) record(ctx revsplit.Context, db revsplit.KVStore, r *Router, cause Cause) error {
	height, _ := revsplit.GetHeight(ctx)
	// Genesis has no block time.
	var at revsplit.UnixTime
	if t, err := revsplit.BlockTime(ctx); err == nil {
		at = revsplit.AsUnixTime(t)
	}
	key, err := c.seq.NextVal(db)
	if err != nil {
		return errors.Wrap(err, "history sequence")
	}
	entry := &HistoryEntry{
		Metadata:  &revsplit.Metadata{Schema: 1},
		Split:     r.Split.Copy(),
		Phase:     r.Phase,
		Cause:     cause,
		Height:    height,
		BlockTime: at,
	}
	if err := c.history.Put(db, key, entry); err != nil {
		return errors.Wrap(err, "save history")
	}
	return nil
}

// actor returns the address of the main signer, if any.
func (c *Controller) actor(ctx revsplit.Context) revsplit.Address {
	signer := x.MainSigner(ctx, c.auth)
	if signer == nil {
		return nil
	}
	return signer.Address()
}

func blockTime(ctx revsplit.Context) (revsplit.UnixTime, error) {
	now, err := revsplit.BlockTime(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "block time")
	}
	return revsplit.AsUnixTime(now), nil
}
