package splitter

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/coin"
	"github.com/tendermint/tendermint/libs/common"
)

// Event kinds emitted by the router.
const (
	KindDistribution       = "splitter/distribution"
	KindSplitScheduled     = "splitter/split_scheduled"
	KindSplitApplied       = "splitter/split_applied"
	KindSplitCancelled     = "splitter/split_cancelled"
	KindPermanentActivated = "splitter/permanent_activated"
	KindPhaseChanged       = "splitter/phase_changed"
	KindWalletsUpdated     = "splitter/wallets_updated"
)

// EventTagKey is the key of the tag added to a delivery result for every
// emitted event. Tag value is the event kind.
const EventTagKey = "splitter.event"

// DistributionEvent is emitted when the router balance of a currency was
// sent to the destination wallets.
type DistributionEvent struct {
	Ticker  string            `json:"ticker"`
	Total   coin.Coin         `json:"total"`
	Shares  Shares            `json:"shares"`
	Split   Split             `json:"split"`
	Wallets Wallets           `json:"wallets"`
	Actor   revsplit.Address  `json:"actor"`
	At      revsplit.UnixTime `json:"at"`
}

func (DistributionEvent) EventKind() string { return KindDistribution }

// SplitScheduledEvent is emitted when a split was proposed. Replaced is the
// proposal that was pending before, if any.
type SplitScheduledEvent struct {
	Scheduled ScheduledSplit    `json:"scheduled"`
	Replaced  *ScheduledSplit   `json:"replaced,omitempty"`
	Active    Split             `json:"active"`
	Actor     revsplit.Address  `json:"actor"`
	At        revsplit.UnixTime `json:"at"`
}

func (SplitScheduledEvent) EventKind() string { return KindSplitScheduled }

// SplitAppliedEvent is emitted when a scheduled split became active.
type SplitAppliedEvent struct {
	Previous    Split             `json:"previous"`
	Split       Split             `json:"split"`
	EffectiveAt revsplit.UnixTime `json:"effective_at"`
	Actor       revsplit.Address  `json:"actor"`
	At          revsplit.UnixTime `json:"at"`
}

func (SplitAppliedEvent) EventKind() string { return KindSplitApplied }

// SplitCancelledEvent is emitted when a scheduled split was dropped.
type SplitCancelledEvent struct {
	Cancelled ScheduledSplit    `json:"cancelled"`
	Actor     revsplit.Address  `json:"actor"`
	At        revsplit.UnixTime `json:"at"`
}

func (SplitCancelledEvent) EventKind() string { return KindSplitCancelled }

// PermanentActivatedEvent is emitted when the permanent split was
// activated. Cancelled is the scheduled split that was dropped, if any.
type PermanentActivatedEvent struct {
	Previous  Split             `json:"previous"`
	Split     Split             `json:"split"`
	Cancelled *ScheduledSplit   `json:"cancelled,omitempty"`
	Actor     revsplit.Address  `json:"actor"`
	At        revsplit.UnixTime `json:"at"`
}

func (PermanentActivatedEvent) EventKind() string { return KindPermanentActivated }

// PhaseChangedEvent is emitted every time the router enters a new phase.
type PhaseChangedEvent struct {
	From  Phase             `json:"from"`
	To    Phase             `json:"to"`
	Actor revsplit.Address  `json:"actor"`
	At    revsplit.UnixTime `json:"at"`
}

func (PhaseChangedEvent) EventKind() string { return KindPhaseChanged }

// WalletsUpdatedEvent is emitted when destination wallets were changed.
type WalletsUpdatedEvent struct {
	Previous Wallets           `json:"previous"`
	Wallets  Wallets           `json:"wallets"`
	Actor    revsplit.Address  `json:"actor"`
	At       revsplit.UnixTime `json:"at"`
}

func (WalletsUpdatedEvent) EventKind() string { return KindWalletsUpdated }

// eventTags returns a tag for each of the given events.
func eventTags(events []revsplit.Event) []common.KVPair {
	tags := make([]common.KVPair, 0, len(events))
	for _, e := range events {
		tags = append(tags, common.KVPair{
			Key:   []byte(EventTagKey),
			Value: []byte(e.EventKind()),
		})
	}
	return tags
}
