package splitter

import (
	"testing"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/revsplittest"
	"github.com/iov-one/revsplit/revsplittest/assert"
)

func newWallets() *Wallets {
	return &Wallets{
		Founder: revsplittest.NewAddress(),
		Dao:     revsplittest.NewAddress(),
		Charity: revsplittest.NewAddress(),
	}
}

func TestWalletsValidate(t *testing.T) {
	same := revsplittest.NewAddress()
	cases := map[string]struct {
		wallets *Wallets
		wantErr *errors.Error
	}{
		"valid": {
			wallets: newWallets(),
		},
		"missing": {
			wallets: nil,
			wantErr: errors.ErrEmpty,
		},
		"missing founder": {
			wallets: &Wallets{Dao: revsplittest.NewAddress(), Charity: revsplittest.NewAddress()},
			wantErr: errors.ErrEmpty,
		},
		"invalid charity": {
			wallets: &Wallets{Founder: revsplittest.NewAddress(), Dao: revsplittest.NewAddress(), Charity: revsplit.Address("short")},
			wantErr: errors.ErrInput,
		},
		"duplicated address": {
			wallets: &Wallets{Founder: same, Dao: revsplittest.NewAddress(), Charity: same},
			wantErr: errors.ErrDuplicate,
		},
		"router account as destination": {
			wallets: &Wallets{Founder: revsplittest.NewAddress(), Dao: RouterAccount(), Charity: revsplittest.NewAddress()},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.wallets.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestRouterValidate(t *testing.T) {
	scheduled := &ScheduledSplit{
		Split:       &Split{Founder: 5000, Dao: 3000, Charity: 2000},
		ScheduledAt: 1000,
		EffectiveAt: 2000,
	}
	cases := map[string]struct {
		router  *Router
		wantErr *errors.Error
	}{
		"survival": {
			router: &Router{
				Metadata: &revsplit.Metadata{Schema: 1},
				Phase:    PhaseSurvival,
				Split:    InitialSplit(),
				Wallets:  newWallets(),
			},
		},
		"transition with a scheduled split": {
			router: &Router{
				Metadata:  &revsplit.Metadata{Schema: 1},
				Phase:     PhaseTransition,
				Split:     InitialSplit(),
				Scheduled: scheduled,
				Wallets:   newWallets(),
			},
		},
		"survival with a scheduled split": {
			router: &Router{
				Metadata:  &revsplit.Metadata{Schema: 1},
				Phase:     PhaseSurvival,
				Split:     InitialSplit(),
				Scheduled: scheduled,
				Wallets:   newWallets(),
			},
			wantErr: errors.ErrState,
		},
		"schedule effective before it was made": {
			router: &Router{
				Metadata: &revsplit.Metadata{Schema: 1},
				Phase:    PhaseTransition,
				Split:    InitialSplit(),
				Scheduled: &ScheduledSplit{
					Split:       &Split{Founder: 5000, Dao: 3000, Charity: 2000},
					ScheduledAt: 2000,
					EffectiveAt: 2000,
				},
				Wallets: newWallets(),
			},
			wantErr: errors.ErrState,
		},
		"permanent above the founder cap": {
			router: &Router{
				Metadata: &revsplit.Metadata{Schema: 1},
				Phase:    PhasePermanent,
				Split:    InitialSplit(),
				Wallets:  newWallets(),
			},
			wantErr: ErrSplit,
		},
		"permanent": {
			router: &Router{
				Metadata: &revsplit.Metadata{Schema: 1},
				Phase:    PhasePermanent,
				Split:    &Split{Founder: 1000, Dao: 6000, Charity: 3000},
				Wallets:  newWallets(),
			},
		},
		"missing metadata": {
			router: &Router{
				Phase:   PhaseSurvival,
				Split:   InitialSplit(),
				Wallets: newWallets(),
			},
			wantErr: errors.ErrMetadata,
		},
		"unknown phase": {
			router: &Router{
				Metadata: &revsplit.Metadata{Schema: 1},
				Split:    InitialSplit(),
				Wallets:  newWallets(),
			},
			wantErr: errors.ErrState,
		},
		"invalid split": {
			router: &Router{
				Metadata: &revsplit.Metadata{Schema: 1},
				Phase:    PhaseSurvival,
				Split:    &Split{Founder: 1},
				Wallets:  newWallets(),
			},
			wantErr: ErrSplit,
		},
		"missing wallets": {
			router: &Router{
				Metadata: &revsplit.Metadata{Schema: 1},
				Phase:    PhaseSurvival,
				Split:    InitialSplit(),
			},
			wantErr: errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.router.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestRouterSerialization(t *testing.T) {
	r := &Router{
		Metadata: &revsplit.Metadata{Schema: 1},
		Phase:    PhaseTransition,
		Split:    &Split{Founder: 7000, Dao: 2000, Charity: 1000},
		Scheduled: &ScheduledSplit{
			Split:       &Split{Founder: 5000, Dao: 3000, Charity: 2000},
			ScheduledAt: 1000,
			EffectiveAt: 2000,
		},
		Wallets: newWallets(),
	}
	raw, err := r.Marshal()
	assert.Nil(t, err)
	var got Router
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, r, &got)

	// A copy must not share any state with the original.
	cpy := r.Copy()
	cpy.Split.Founder = 1
	cpy.Scheduled.Split.Dao = 1
	cpy.Wallets.Founder[0]++
	assert.Equal(t, uint32(7000), r.Split.Founder)
	assert.Equal(t, uint32(3000), r.Scheduled.Split.Dao)
	assert.Equal(t, false, r.Wallets.Founder.Equals(cpy.Wallets.Founder))
}

func TestHistoryEntryValidate(t *testing.T) {
	valid := HistoryEntry{
		Metadata:  &revsplit.Metadata{Schema: 1},
		Split:     InitialSplit(),
		Phase:     PhaseSurvival,
		Cause:     CauseGenesis,
		Height:    0,
		BlockTime: 0,
	}
	assert.Nil(t, valid.Validate())

	raw, err := valid.Marshal()
	assert.Nil(t, err)
	var got HistoryEntry
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, valid, got)

	unknown := valid
	unknown.Cause = "unknown"
	if err := unknown.Validate(); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	negative := valid
	negative.Height = -1
	if err := negative.Validate(); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
