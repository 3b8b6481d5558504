package splitter

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/codec"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
)

const (
	pathEnterTransitionMsg      = "splitter/enter_transition"
	pathScheduleSplitMsg        = "splitter/schedule_split"
	pathApplySplitMsg           = "splitter/apply_split"
	pathCancelScheduledSplitMsg = "splitter/cancel_scheduled_split"
	pathActivatePermanentMsg    = "splitter/activate_permanent"
	pathUpdateWalletsMsg        = "splitter/update_wallets"
	pathDistributeMsg           = "splitter/distribute"
	pathUpdateConfigurationMsg  = "splitter/update_configuration"
)

// EnterTransitionMsg moves the router into the transition phase.
type EnterTransitionMsg struct {
	Metadata *revsplit.Metadata `json:"metadata"`
}

var _ revsplit.Msg = (*EnterTransitionMsg)(nil)

func (EnterTransitionMsg) Path() string {
	return pathEnterTransitionMsg
}

func (m *EnterTransitionMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

func (m *EnterTransitionMsg) Marshal() ([]byte, error) {
	return marshalMetadata(m.Metadata)
}

func (m *EnterTransitionMsg) Unmarshal(raw []byte) error {
	md, err := unmarshalMetadata(raw)
	*m = EnterTransitionMsg{Metadata: md}
	return err
}

// ScheduleSplitMsg proposes a new split, effective after the timelock.
type ScheduleSplitMsg struct {
	Metadata *revsplit.Metadata `json:"metadata"`
	Split    *Split             `json:"split"`
	// Timelock is the delay in seconds before the split can be applied.
	Timelock int64 `json:"timelock"`
}

var _ revsplit.Msg = (*ScheduleSplitMsg)(nil)

func (ScheduleSplitMsg) Path() string {
	return pathScheduleSplitMsg
}

func (m *ScheduleSplitMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Split.Validate(); err != nil {
		return err
	}
	if m.Timelock <= 0 {
		return errors.Wrap(ErrSplit, "timelock must be positive")
	}
	if m.Timelock > MaxTimelock {
		return errors.Wrapf(ErrSplit, "timelock must not exceed %d", MaxTimelock)
	}
	return nil
}

func (m *ScheduleSplitMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if m.Metadata != nil {
		if err := w.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	if m.Split != nil {
		if err := w.Message(2, m.Split); err != nil {
			return nil, err
		}
	}
	w.Int64(3, m.Timelock)
	return w.Result(), nil
}

func (m *ScheduleSplitMsg) Unmarshal(raw []byte) error {
	*m = ScheduleSplitMsg{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &revsplit.Metadata{}
			err = r.Message(m.Metadata)
		case 2:
			m.Split = &Split{}
			err = r.Message(m.Split)
		case 3:
			m.Timelock, err = r.Int64()
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ApplySplitMsg makes the scheduled split active.
type ApplySplitMsg struct {
	Metadata *revsplit.Metadata `json:"metadata"`
}

var _ revsplit.Msg = (*ApplySplitMsg)(nil)

func (ApplySplitMsg) Path() string {
	return pathApplySplitMsg
}

func (m *ApplySplitMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

func (m *ApplySplitMsg) Marshal() ([]byte, error) {
	return marshalMetadata(m.Metadata)
}

func (m *ApplySplitMsg) Unmarshal(raw []byte) error {
	md, err := unmarshalMetadata(raw)
	*m = ApplySplitMsg{Metadata: md}
	return err
}

// CancelScheduledSplitMsg drops the scheduled split.
type CancelScheduledSplitMsg struct {
	Metadata *revsplit.Metadata `json:"metadata"`
}

var _ revsplit.Msg = (*CancelScheduledSplitMsg)(nil)

func (CancelScheduledSplitMsg) Path() string {
	return pathCancelScheduledSplitMsg
}

func (m *CancelScheduledSplitMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

func (m *CancelScheduledSplitMsg) Marshal() ([]byte, error) {
	return marshalMetadata(m.Metadata)
}

func (m *CancelScheduledSplitMsg) Unmarshal(raw []byte) error {
	md, err := unmarshalMetadata(raw)
	*m = CancelScheduledSplitMsg{Metadata: md}
	return err
}

// ActivatePermanentMsg sets the final split of the router.
type ActivatePermanentMsg struct {
	Metadata *revsplit.Metadata `json:"metadata"`
	Split    *Split             `json:"split"`
}

var _ revsplit.Msg = (*ActivatePermanentMsg)(nil)

func (ActivatePermanentMsg) Path() string {
	return pathActivatePermanentMsg
}

func (m *ActivatePermanentMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return m.Split.ValidatePermanent()
}

func (m *ActivatePermanentMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if m.Metadata != nil {
		if err := w.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	if m.Split != nil {
		if err := w.Message(2, m.Split); err != nil {
			return nil, err
		}
	}
	return w.Result(), nil
}

func (m *ActivatePermanentMsg) Unmarshal(raw []byte) error {
	*m = ActivatePermanentMsg{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &revsplit.Metadata{}
			err = r.Message(m.Metadata)
		case 2:
			m.Split = &Split{}
			err = r.Message(m.Split)
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateWalletsMsg changes the destination wallets.
type UpdateWalletsMsg struct {
	Metadata *revsplit.Metadata `json:"metadata"`
	Wallets  *Wallets           `json:"wallets"`
}

var _ revsplit.Msg = (*UpdateWalletsMsg)(nil)

func (UpdateWalletsMsg) Path() string {
	return pathUpdateWalletsMsg
}

func (m *UpdateWalletsMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return errors.Wrap(m.Wallets.Validate(), "wallets")
}

func (m *UpdateWalletsMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if m.Metadata != nil {
		if err := w.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	if m.Wallets != nil {
		if err := w.Message(2, m.Wallets); err != nil {
			return nil, err
		}
	}
	return w.Result(), nil
}

func (m *UpdateWalletsMsg) Unmarshal(raw []byte) error {
	*m = UpdateWalletsMsg{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &revsplit.Metadata{}
			err = r.Message(m.Metadata)
		case 2:
			m.Wallets = &Wallets{}
			err = r.Message(m.Wallets)
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Asset selects the currency a DistributeMsg distributes.
type Asset int32

const (
	// AssetStable is the configured stable coin.
	AssetStable Asset = 1
	// AssetNative is the configured native asset.
	AssetNative Asset = 2
	// AssetToken is the currency named by the message ticker.
	AssetToken Asset = 3
)

// DistributeMsg sends the router balance of a single currency to the
// destination wallets.
type DistributeMsg struct {
	Metadata *revsplit.Metadata `json:"metadata"`
	Asset    Asset              `json:"asset"`
	// Ticker must be set only for AssetToken.
	Ticker string `json:"ticker,omitempty"`
}

var _ revsplit.Msg = (*DistributeMsg)(nil)

func (DistributeMsg) Path() string {
	return pathDistributeMsg
}

func (m *DistributeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	switch m.Asset {
	case AssetStable, AssetNative:
		if m.Ticker != "" {
			return errors.Wrap(errors.ErrInput, "ticker is declared by the configuration")
		}
	case AssetToken:
		if !coin.IsCC(m.Ticker) {
			return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.Ticker)
		}
	default:
		return errors.Wrapf(errors.ErrInput, "unknown asset %d", m.Asset)
	}
	return nil
}

func (m *DistributeMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if m.Metadata != nil {
		if err := w.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	w.Int32(2, int32(m.Asset))
	w.String(3, m.Ticker)
	return w.Result(), nil
}

func (m *DistributeMsg) Unmarshal(raw []byte) error {
	*m = DistributeMsg{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &revsplit.Metadata{}
			err = r.Message(m.Metadata)
		case 2:
			var v int32
			v, err = r.Int32()
			m.Asset = Asset(v)
		case 3:
			m.Ticker, err = r.String()
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateConfigurationMsg patches the package configuration. Only non zero
// fields of the patch are applied.
type UpdateConfigurationMsg struct {
	Metadata *revsplit.Metadata `json:"metadata"`
	Patch    *Configuration     `json:"patch"`
}

var _ revsplit.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if m.Metadata != nil {
		if err := w.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	if m.Patch != nil {
		if err := w.Message(2, m.Patch); err != nil {
			return nil, err
		}
	}
	return w.Result(), nil
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &revsplit.Metadata{}
			err = r.Message(m.Metadata)
		case 2:
			m.Patch = &Configuration{}
			err = r.Message(m.Patch)
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func marshalMetadata(md *revsplit.Metadata) ([]byte, error) {
	w := codec.NewWriter()
	if md != nil {
		if err := w.Message(1, md); err != nil {
			return nil, err
		}
	}
	return w.Result(), nil
}

func unmarshalMetadata(raw []byte) (*revsplit.Metadata, error) {
	var md *revsplit.Metadata
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return nil, err
		}
		if field == 1 {
			md = &revsplit.Metadata{}
			err = r.Message(md)
		} else {
			err = r.Skip(wire)
		}
		if err != nil {
			return nil, err
		}
	}
	return md, nil
}
