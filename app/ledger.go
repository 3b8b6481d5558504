package app

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/orm"
	"github.com/jonboulle/clockwork"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	chainIDKey = []byte("_rs:chainID")
	heightKey  = []byte("_rs:height")
)

// Ledger is the host of all handlers. It processes one transaction at a
// time. Every delivered transaction is a new block with a height one higher
// than the previous one and a block time taken from the clock.
//
// Each transaction is executed on a cache wrap of the state that is written
// only if the handler returned no error, so a failed transaction leaves no
// trace in the state.
type Ledger struct {
	mu sync.Mutex

	db          revsplit.CacheableKVStore
	handler     revsplit.Handler
	initializer revsplit.Initializer
	clock       clockwork.Clock
	logger      log.Logger

	chainID string
	height  int64
}

// NewLedger returns a ledger operating on given store. If the store was
// already initialized, the chain ID and the last height are loaded from it.
//
// This function panics if the store cannot be read.
func NewLedger(
	db revsplit.CacheableKVStore,
	handler revsplit.Handler,
	initializer revsplit.Initializer,
	clock clockwork.Clock,
) *Ledger {
	l := &Ledger{
		db:          db,
		handler:     handler,
		initializer: initializer,
		clock:       clock,
		logger:      log.NewNopLogger(),
	}
	raw, err := db.Get(chainIDKey)
	if err != nil {
		panic(err)
	}
	l.chainID = string(raw)
	if raw, err = db.Get(heightKey); err != nil {
		panic(err)
	}
	if raw != nil {
		l.height = orm.DecodeSequence(raw)
	}
	return l
}

// WithLogger sets the logger on the Ledger and returns it, to make it easy to
// chain in initialization.
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.logger = logger
	return l
}

// ChainID returns the ID of the chain this ledger was initialized with.
func (l *Ledger) ChainID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chainID
}

// Height returns the height of the last delivered transaction.
func (l *Ledger) Height() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// InitChain is called once, the first time the chain starts. Application
// state is a JSON object that is passed to the initializer.
func (l *Ledger) InitChain(chainID string, appState []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain: %s", l.chainID)
	}
	if !revsplit.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "invalid chain ID: %q", chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app state not set in genesis")
	}
	var opts revsplit.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err)
	}

	cache := l.db.CacheWrap()
	if err := l.initializer.FromGenesis(opts, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Set(chainIDKey, []byte(chainID)); err != nil {
		cache.Discard()
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	l.chainID = chainID
	l.logger.Info("Chain initialized", "chain_id", chainID)
	return nil
}

// FromGenesis initializes the chain using the content of a genesis file.
func (l *Ledger) FromGenesis(gen Genesis) error {
	return l.InitChain(gen.ChainID, gen.AppState)
}

// Check validates given transaction against the current state without
// modifying it.
func (l *Ledger) Check(tx revsplit.Tx) (*revsplit.CheckResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ready(); err != nil {
		return nil, err
	}
	ctx := revsplit.WithLogInfo(l.context(l.height+1), "call", "check_tx", "path", revsplit.GetPath(tx))
	cache := l.db.CacheWrap()
	defer cache.Discard()
	return l.handler.Check(ctx, cache, tx)
}

// Deliver executes given transaction in a new block. Changes are persisted
// only if the transaction succeeded. Height is increased even if the
// transaction failed.
func (l *Ledger) Deliver(tx revsplit.Tx) (*revsplit.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ready(); err != nil {
		return nil, err
	}
	height := l.height + 1
	ctx := revsplit.WithLogInfo(l.context(height), "call", "deliver_tx", "path", revsplit.GetPath(tx))

	cache := l.db.CacheWrap()
	res, err := l.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
	} else if err = cache.Write(); err != nil {
		err = errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if serr := l.saveHeight(height); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}
	for _, ev := range res.Events {
		l.logger.Debug("Event emitted", "height", height, "kind", ev.EventKind())
	}
	return res, nil
}

// Query executes given function with a read only access to the current
// state.
func (l *Ledger) Query(fn func(ctx revsplit.Context, db revsplit.ReadOnlyKVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.context(l.height), l.db)
}

// Update executes given function with a write access to the state. It is
// meant for changes that originate from the host and not from a
// transaction, for example funds arriving from outside of the ledger.
// Changes are persisted only if the function returns no error.
func (l *Ledger) Update(fn func(ctx revsplit.Context, db revsplit.KVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cache := l.db.CacheWrap()
	if err := fn(l.context(l.height), cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (l *Ledger) ready() error {
	if l.chainID == "" {
		return errors.Wrap(errors.ErrState, "chain not initialized")
	}
	return nil
}

func (l *Ledger) saveHeight(height int64) error {
	if err := l.db.Set(heightKey, orm.EncodeSequence(height)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	l.height = height
	return nil
}

// context returns the block context for given height.
func (l *Ledger) context(height int64) revsplit.Context {
	ctx := revsplit.WithLogger(context.Background(), l.logger)
	ctx = revsplit.WithHeight(ctx, height)
	ctx = revsplit.WithBlockTime(ctx, l.clock.Now())
	if l.chainID != "" {
		ctx = revsplit.WithChainID(ctx, l.chainID)
	}
	return ctx
}
