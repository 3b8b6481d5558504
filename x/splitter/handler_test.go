package splitter

import (
	"testing"
	"time"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/app"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/revsplittest"
	"github.com/iov-one/revsplit/revsplittest/assert"
	"github.com/tendermint/tendermint/libs/common"
)

func TestHandlers(t *testing.T) {
	md := &revsplit.Metadata{Schema: 1}

	cases := map[string]struct {
		// phase the router is moved into before the message is processed
		phase          Phase
		pending        bool
		signers        func(f *fixture) []revsplit.Condition
		msg            revsplit.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantKinds      []string
	}{
		"governor enters transition": {
			phase:     PhaseSurvival,
			signers:   func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.governor} },
			msg:       &EnterTransitionMsg{Metadata: md},
			wantKinds: []string{"splitter/phase_changed"},
		},
		"admin cannot enter transition": {
			phase:          PhaseSurvival,
			signers:        func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.admin} },
			msg:            &EnterTransitionMsg{Metadata: md},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"invalid message is rejected": {
			phase:          PhaseSurvival,
			signers:        func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.governor} },
			msg:            &EnterTransitionMsg{},
			wantCheckErr:   errors.ErrMetadata,
			wantDeliverErr: errors.ErrMetadata,
		},
		"governor schedules a split": {
			phase:   PhaseTransition,
			signers: func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.governor} },
			msg: &ScheduleSplitMsg{
				Metadata: md,
				Split:    &Split{Founder: 6000, Dao: 2000, Charity: 2000},
				Timelock: 7200,
			},
			wantKinds: []string{"splitter/split_scheduled"},
		},
		"timelock below the minimum": {
			phase:   PhaseTransition,
			signers: func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.governor} },
			msg: &ScheduleSplitMsg{
				Metadata: md,
				Split:    &Split{Founder: 6000, Dao: 2000, Charity: 2000},
				Timelock: 60,
			},
			wantCheckErr:   ErrSplit,
			wantDeliverErr: ErrSplit,
		},
		"split cannot be scheduled in survival": {
			phase:   PhaseSurvival,
			signers: func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.governor} },
			msg: &ScheduleSplitMsg{
				Metadata: md,
				Split:    &Split{Founder: 6000, Dao: 2000, Charity: 2000},
				Timelock: 7200,
			},
			wantCheckErr:   ErrPhase,
			wantDeliverErr: ErrPhase,
		},
		"split is not ready before the timelock": {
			phase:          PhaseTransition,
			pending:        true,
			msg:            &ApplySplitMsg{Metadata: md},
			wantCheckErr:   ErrNotReady,
			wantDeliverErr: ErrNotReady,
		},
		"governor cancels a scheduled split": {
			phase:     PhaseTransition,
			pending:   true,
			signers:   func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.governor} },
			msg:       &CancelScheduledSplitMsg{Metadata: md},
			wantKinds: []string{"splitter/split_cancelled"},
		},
		"nothing to cancel": {
			phase:          PhaseTransition,
			signers:        func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.governor} },
			msg:            &CancelScheduledSplitMsg{Metadata: md},
			wantCheckErr:   ErrNoSchedule,
			wantDeliverErr: ErrNoSchedule,
		},
		"admin activates the permanent split": {
			phase:   PhaseTransition,
			pending: true,
			signers: func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.admin} },
			msg: &ActivatePermanentMsg{
				Metadata: md,
				Split:    &Split{Founder: 1000, Dao: 5000, Charity: 4000},
			},
			wantKinds: []string{"splitter/permanent_activated", "splitter/phase_changed"},
		},
		"permanent split is final": {
			phase:   PhasePermanent,
			signers: func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.admin} },
			msg: &ActivatePermanentMsg{
				Metadata: md,
				Split:    &Split{Founder: 1000, Dao: 5000, Charity: 4000},
			},
			wantCheckErr:   ErrPhase,
			wantDeliverErr: ErrPhase,
		},
		"admin updates wallets": {
			phase:     PhaseSurvival,
			signers:   func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.admin} },
			msg:       &UpdateWalletsMsg{Metadata: md, Wallets: newWallets()},
			wantKinds: []string{"splitter/wallets_updated"},
		},
		"wallets are locked in permanent": {
			phase:          PhasePermanent,
			signers:        func(f *fixture) []revsplit.Condition { return []revsplit.Condition{f.admin} },
			msg:            &UpdateWalletsMsg{Metadata: md, Wallets: newWallets()},
			wantCheckErr:   ErrPhase,
			wantDeliverErr: ErrPhase,
		},
		"anyone distributes the stable coin": {
			phase:     PhasePermanent,
			msg:       &DistributeMsg{Metadata: md, Asset: AssetStable},
			wantKinds: []string{"splitter/distribution"},
		},
		"anyone distributes the native asset": {
			phase:     PhaseSurvival,
			msg:       &DistributeMsg{Metadata: md, Asset: AssetNative},
			wantKinds: []string{"splitter/distribution"},
		},
		"anyone distributes a token": {
			phase:     PhaseTransition,
			msg:       &DistributeMsg{Metadata: md, Asset: AssetToken, Ticker: "IOV"},
			wantKinds: []string{"splitter/distribution"},
		},
		"distribution of an empty balance": {
			phase:     PhaseTransition,
			msg:       &DistributeMsg{Metadata: md, Asset: AssetToken, Ticker: "DOGE"},
			wantKinds: []string{},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.toPhase(t, tc.phase, tc.pending)
			f.fund(t, coin.NewCoin(10, 0, "USDC"))
			f.fund(t, coin.NewCoin(10, 0, "ETH"))
			f.fund(t, coin.NewCoin(10, 0, "IOV"))

			rt := app.NewRouter()
			RegisterRoutes(rt, f.auth, f.ctrl)

			var signers []revsplit.Condition
			if tc.signers != nil {
				signers = tc.signers(f)
			}
			ctx := f.ctx(signers...)
			tx := &revsplittest.Tx{Msg: tc.msg}

			cache := f.db.CacheWrap()
			_, err := rt.Check(ctx, cache, tx)
			cache.Discard()
			if !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}

			res, err := rt.Deliver(ctx, f.db, tx)
			if !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.wantDeliverErr != nil {
				return
			}

			kinds := make([]string, 0, len(res.Events))
			for _, e := range res.Events {
				kinds = append(kinds, e.EventKind())
			}
			assert.Equal(t, tc.wantKinds, kinds)

			tags := make([]common.KVPair, 0, len(tc.wantKinds))
			for _, k := range tc.wantKinds {
				tags = append(tags, common.KVPair{Key: []byte(EventTagKey), Value: []byte(k)})
			}
			assert.Equal(t, tags, res.Tags)
		})
	}
}

func TestHandlerApplySplit(t *testing.T) {
	f := newFixture(t)
	f.toPhase(t, PhaseTransition, true)
	f.now = f.now.Add(minTimelock)

	rt := app.NewRouter()
	RegisterRoutes(rt, f.auth, f.ctrl)

	tx := &revsplittest.Tx{Msg: &ApplySplitMsg{Metadata: &revsplit.Metadata{Schema: 1}}}
	res, err := rt.Deliver(f.ctx(f.stranger), f.db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res.Events))
	assert.Equal(t, Split{Founder: 5000, Dao: 3000, Charity: 2000}, *f.router(t).Split)
}

func TestHandlerUpdateConfiguration(t *testing.T) {
	f := newFixture(t)
	rt := app.NewRouter()
	RegisterRoutes(rt, f.auth, f.ctrl)

	newGovernor := revsplittest.NewCondition()
	tx := &revsplittest.Tx{Msg: &UpdateConfigurationMsg{
		Metadata: &revsplit.Metadata{Schema: 1},
		Patch: &Configuration{
			Governor:    newGovernor.Address(),
			MinTimelock: int64((2 * time.Hour) / time.Second),
		},
	}}

	_, err := rt.Deliver(f.ctx(f.governor), f.db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = rt.Deliver(f.ctx(f.admin), f.db, tx)
	assert.Nil(t, err)

	conf, err := loadConf(f.db)
	assert.Nil(t, err)
	assert.Equal(t, newGovernor.Address(), conf.Governor)
	assert.Equal(t, f.admin.Address(), conf.Admin)
	assert.Equal(t, 2*time.Hour, conf.MinTimelockDuration())
	assert.Equal(t, "USDC", conf.StableTicker)

	// Roles are read from the configuration on every call.
	_, err = f.ctrl.EnterTransitionPhase(f.ctx(f.governor), f.db)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.ctrl.EnterTransitionPhase(f.ctx(newGovernor), f.db)
	assert.Nil(t, err)
	_, err = f.ctrl.ScheduleSplit(f.ctx(newGovernor), f.db, Split{Founder: 5000, Dao: 5000}, minTimelock)
	assert.IsErr(t, ErrSplit, err)
}

func TestHandlerScheduleLongestTimelock(t *testing.T) {
	f := newFixture(t)
	f.toPhase(t, PhaseTransition, false)

	rt := app.NewRouter()
	RegisterRoutes(rt, f.auth, f.ctrl)

	tx := &revsplittest.Tx{Msg: &ScheduleSplitMsg{
		Metadata: &revsplit.Metadata{Schema: 1},
		Split:    &Split{Founder: 6000, Dao: 2000, Charity: 2000},
		Timelock: MaxTimelock,
	}}
	_, err := rt.Deliver(f.ctx(f.governor), f.db, tx)
	assert.Nil(t, err)

	scheduled, ok, err := f.ctrl.ScheduledSplit(f.db)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	now := revsplit.AsUnixTime(f.now)
	assert.Equal(t, now+revsplit.UnixTime(MaxTimelock), scheduled.EffectiveAt)

	f.now = f.now.Add(minTimelock)
	_, err = rt.Deliver(f.ctx(f.stranger), f.db, &revsplittest.Tx{Msg: &ApplySplitMsg{Metadata: &revsplit.Metadata{Schema: 1}}})
	assert.IsErr(t, ErrNotReady, err)
}
