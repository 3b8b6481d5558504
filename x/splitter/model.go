package splitter

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/codec"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/orm"
)

const (
	routerBucketName  = "splitter"
	historyBucketName = "splithist"
)

// routerKey is the key of the router singleton in the router bucket.
var routerKey = []byte("router")

// RouterAccount returns the address holding the revenue that is not yet
// distributed. Coins sent to this address are split between the
// destination wallets.
func RouterAccount() revsplit.Address {
	return revsplit.NewCondition("splitter", "router", []byte("revenue")).Address()
}

// Wallets are the destination addresses of a split revenue.
type Wallets struct {
	Founder revsplit.Address `json:"founder"`
	Dao     revsplit.Address `json:"dao"`
	Charity revsplit.Address `json:"charity"`
}

// Validate ensures all destinations are valid and distinct addresses.
func (w *Wallets) Validate() error {
	if w == nil {
		return errors.Wrap(errors.ErrEmpty, "missing wallets")
	}
	if err := w.Founder.Validate(); err != nil {
		return errors.Wrap(err, "founder")
	}
	if err := w.Dao.Validate(); err != nil {
		return errors.Wrap(err, "dao")
	}
	if err := w.Charity.Validate(); err != nil {
		return errors.Wrap(err, "charity")
	}
	if w.Founder.Equals(w.Dao) || w.Founder.Equals(w.Charity) || w.Dao.Equals(w.Charity) {
		return errors.Wrap(errors.ErrDuplicate, "wallets must be distinct")
	}
	if router := RouterAccount(); router.Equals(w.Founder) || router.Equals(w.Dao) || router.Equals(w.Charity) {
		return errors.Wrap(errors.ErrInput, "router account cannot be a destination")
	}
	return nil
}

// Copy returns a deep copy of these wallets.
func (w *Wallets) Copy() *Wallets {
	if w == nil {
		return nil
	}
	return &Wallets{
		Founder: w.Founder.Clone(),
		Dao:     w.Dao.Clone(),
		Charity: w.Charity.Clone(),
	}
}

func (w *Wallets) Marshal() ([]byte, error) {
	wr := codec.NewWriter()
	wr.Bytes(1, w.Founder)
	wr.Bytes(2, w.Dao)
	wr.Bytes(3, w.Charity)
	return wr.Result(), nil
}

func (w *Wallets) Unmarshal(raw []byte) error {
	*w = Wallets{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			w.Founder, err = r.Bytes()
		case 2:
			w.Dao, err = r.Bytes()
		case 3:
			w.Charity, err = r.Bytes()
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ScheduledSplit is a split waiting for its timelock to elapse.
type ScheduledSplit struct {
	Split *Split `json:"split"`
	// EffectiveAt is the earliest block time the split can be applied at.
	EffectiveAt revsplit.UnixTime `json:"effective_at"`
	ScheduledAt revsplit.UnixTime `json:"scheduled_at"`
}

func (s *ScheduledSplit) Validate() error {
	if err := s.Split.Validate(); err != nil {
		return errors.Wrap(err, "split")
	}
	if err := s.ScheduledAt.Validate(); err != nil {
		return errors.Wrap(err, "scheduled at")
	}
	if s.EffectiveAt <= s.ScheduledAt {
		return errors.Wrap(errors.ErrState, "effective time must be after schedule time")
	}
	return nil
}

// Copy returns a deep copy of this schedule.
func (s *ScheduledSplit) Copy() *ScheduledSplit {
	if s == nil {
		return nil
	}
	return &ScheduledSplit{
		Split:       s.Split.Copy(),
		EffectiveAt: s.EffectiveAt,
		ScheduledAt: s.ScheduledAt,
	}
}

func (s *ScheduledSplit) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if s.Split != nil {
		if err := w.Message(1, s.Split); err != nil {
			return nil, err
		}
	}
	w.Int64(2, int64(s.EffectiveAt))
	w.Int64(3, int64(s.ScheduledAt))
	return w.Result(), nil
}

func (s *ScheduledSplit) Unmarshal(raw []byte) error {
	*s = ScheduledSplit{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			s.Split = &Split{}
			err = r.Message(s.Split)
		case 2:
			var v int64
			v, err = r.Int64()
			s.EffectiveAt = revsplit.UnixTime(v)
		case 3:
			var v int64
			v, err = r.Int64()
			s.ScheduledAt = revsplit.UnixTime(v)
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Router is the state of the revenue router. The whole state is a single
// entity, so that a phase change and the split change it carries are always
// written together.
type Router struct {
	Metadata *revsplit.Metadata `json:"metadata"`
	Phase    Phase              `json:"phase"`
	// Split is the split currently used for distribution.
	Split *Split `json:"split"`
	// Scheduled is the pending split proposal, if any.
	Scheduled *ScheduledSplit `json:"scheduled,omitempty"`
	Wallets   *Wallets        `json:"wallets"`
}

var _ orm.Model = (*Router)(nil)

func (r *Router) Validate() error {
	if err := r.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := r.Phase.Validate(); err != nil {
		return errors.Wrap(err, "phase")
	}
	if err := r.Split.Validate(); err != nil {
		return errors.Wrap(err, "split")
	}
	if err := r.Wallets.Validate(); err != nil {
		return errors.Wrap(err, "wallets")
	}
	if r.Scheduled != nil {
		if r.Phase != PhaseTransition {
			return errors.Wrapf(errors.ErrState, "split cannot be scheduled in %s phase", r.Phase)
		}
		if err := r.Scheduled.Validate(); err != nil {
			return errors.Wrap(err, "scheduled")
		}
	}
	if r.Phase == PhasePermanent {
		if err := r.Split.ValidatePermanent(); err != nil {
			return errors.Wrap(err, "permanent split")
		}
	}
	return nil
}

// Copy returns a deep copy of this router.
func (r *Router) Copy() *Router {
	return &Router{
		Metadata:  r.Metadata.Copy(),
		Phase:     r.Phase,
		Split:     r.Split.Copy(),
		Scheduled: r.Scheduled.Copy(),
		Wallets:   r.Wallets.Copy(),
	}
}

func (r *Router) stage() (stage, error) {
	return stageOf(r.Phase)
}

func (r *Router) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if r.Metadata != nil {
		if err := w.Message(1, r.Metadata); err != nil {
			return nil, err
		}
	}
	w.Int32(2, int32(r.Phase))
	if r.Split != nil {
		if err := w.Message(3, r.Split); err != nil {
			return nil, err
		}
	}
	if r.Scheduled != nil {
		if err := w.Message(4, r.Scheduled); err != nil {
			return nil, err
		}
	}
	if r.Wallets != nil {
		if err := w.Message(5, r.Wallets); err != nil {
			return nil, err
		}
	}
	return w.Result(), nil
}

func (r *Router) Unmarshal(raw []byte) error {
	*r = Router{}
	rd := codec.NewReader(raw)
	for rd.More() {
		field, wire, err := rd.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			r.Metadata = &revsplit.Metadata{}
			err = rd.Message(r.Metadata)
		case 2:
			var v int32
			v, err = rd.Int32()
			r.Phase = Phase(v)
		case 3:
			r.Split = &Split{}
			err = rd.Message(r.Split)
		case 4:
			r.Scheduled = &ScheduledSplit{}
			err = rd.Message(r.Scheduled)
		case 5:
			r.Wallets = &Wallets{}
			err = rd.Message(r.Wallets)
		default:
			err = rd.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// NewRouterBucket returns a bucket holding the router state.
func NewRouterBucket() orm.ModelBucket {
	return orm.NewModelBucket(routerBucketName, &Router{})
}

// Cause tells why the active split was changed.
type Cause string

const (
	CauseGenesis   Cause = "genesis"
	CauseApplied   Cause = "applied"
	CausePermanent Cause = "permanent"
)

// HistoryEntry records a split that became active. The history of a router
// is the sequence of all entries ordered by their ID.
type HistoryEntry struct {
	Metadata  *revsplit.Metadata `json:"metadata"`
	Split     *Split             `json:"split"`
	Phase     Phase              `json:"phase"`
	Cause     Cause              `json:"cause"`
	Height    int64              `json:"height"`
	BlockTime revsplit.UnixTime  `json:"block_time"`
}

var _ orm.Model = (*HistoryEntry)(nil)

func (h *HistoryEntry) Validate() error {
	if err := h.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := h.Split.Validate(); err != nil {
		return errors.Wrap(err, "split")
	}
	if err := h.Phase.Validate(); err != nil {
		return errors.Wrap(err, "phase")
	}
	switch h.Cause {
	case CauseGenesis, CauseApplied, CausePermanent:
	default:
		return errors.Wrapf(errors.ErrInput, "unknown cause %q", h.Cause)
	}
	if h.Height < 0 {
		return errors.Wrap(errors.ErrState, "negative height")
	}
	if err := h.BlockTime.Validate(); err != nil {
		return errors.Wrap(err, "block time")
	}
	return nil
}

func (h *HistoryEntry) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if h.Metadata != nil {
		if err := w.Message(1, h.Metadata); err != nil {
			return nil, err
		}
	}
	if h.Split != nil {
		if err := w.Message(2, h.Split); err != nil {
			return nil, err
		}
	}
	w.Int32(3, int32(h.Phase))
	w.String(4, string(h.Cause))
	w.Int64(5, h.Height)
	w.Int64(6, int64(h.BlockTime))
	return w.Result(), nil
}

func (h *HistoryEntry) Unmarshal(raw []byte) error {
	*h = HistoryEntry{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			h.Metadata = &revsplit.Metadata{}
			err = r.Message(h.Metadata)
		case 2:
			h.Split = &Split{}
			err = r.Message(h.Split)
		case 3:
			var v int32
			v, err = r.Int32()
			h.Phase = Phase(v)
		case 4:
			var v string
			v, err = r.String()
			h.Cause = Cause(v)
		case 5:
			h.Height, err = r.Int64()
		case 6:
			var v int64
			v, err = r.Int64()
			h.BlockTime = revsplit.UnixTime(v)
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// NewHistoryBucket returns a bucket holding the split history.
func NewHistoryBucket() orm.ModelBucket {
	return orm.NewModelBucket(historyBucketName, &HistoryEntry{})
}

// newHistorySequence returns the sequence used to key history entries.
func newHistorySequence() orm.Sequence {
	return orm.NewSequence(historyBucketName, "id")
}
