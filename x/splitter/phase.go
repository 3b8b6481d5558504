package splitter

import (
	"encoding/json"
	"strings"

	"github.com/iov-one/revsplit/errors"
)

// Phase is the lifecycle stage of the router. A router can only move
// forward, from survival to transition to permanent.
type Phase int32

const (
	PhaseSurvival   Phase = 1
	PhaseTransition Phase = 2
	PhasePermanent  Phase = 3
)

var phaseNames = map[Phase]string{
	PhaseSurvival:   "SURVIVAL",
	PhaseTransition: "TRANSITION",
	PhasePermanent:  "PERMANENT",
}

func (p Phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return "UNKNOWN"
}

// Validate returns an error if this is not a known phase.
func (p Phase) Validate() error {
	if _, ok := phaseNames[p]; !ok {
		return errors.Wrapf(errors.ErrState, "unknown phase %d", p)
	}
	return nil
}

// MarshalJSON serializes the phase using its name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts a phase name, case insensitive.
func (p *Phase) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for phase, n := range phaseNames {
		if strings.EqualFold(n, name) {
			*p = phase
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown phase %q", name)
}

// stage is the behaviour of a router in a given phase. Operations that a
// phase allows are declared by the interfaces its stage implements. The
// permanent stage implements none of them, so there is no way to leave it.
type stage interface {
	Phase() Phase
}

// transitioner is implemented by a stage that can enter the transition
// phase.
type transitioner interface {
	stage
	enterTransition() stage
}

// activator is implemented by a stage that can activate the permanent
// split.
type activator interface {
	stage
	activatePermanent() stage
}

// scheduler is implemented by a stage that accepts split proposals and
// their cancellation.
type scheduler interface {
	stage
	schedules()
}

// applier is implemented by a stage in which a scheduled split can take
// effect.
type applier interface {
	stage
	applies()
}

// walletEditor is implemented by a stage that allows the destination
// wallets to be changed.
type walletEditor interface {
	stage
	editsWallets()
}

type survival struct{}

func (survival) Phase() Phase             { return PhaseSurvival }
func (survival) enterTransition() stage   { return transition{} }
func (survival) activatePermanent() stage { return permanent{} }
func (survival) applies()                 {}
func (survival) editsWallets()            {}

type transition struct{}

func (transition) Phase() Phase             { return PhaseTransition }
func (transition) activatePermanent() stage { return permanent{} }
func (transition) schedules()               {}
func (transition) applies()                 {}
func (transition) editsWallets()            {}

type permanent struct{}

func (permanent) Phase() Phase { return PhasePermanent }

var (
	_ transitioner = survival{}
	_ activator    = survival{}
	_ applier      = survival{}
	_ walletEditor = survival{}

	_ activator    = transition{}
	_ scheduler    = transition{}
	_ applier      = transition{}
	_ walletEditor = transition{}
)

// stageOf returns the stage implementing given phase.
func stageOf(p Phase) (stage, error) {
	switch p {
	case PhaseSurvival:
		return survival{}, nil
	case PhaseTransition:
		return transition{}, nil
	case PhasePermanent:
		return permanent{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "unknown phase %d", p)
	}
}
