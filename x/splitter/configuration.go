package splitter

import (
	"math"
	"time"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/codec"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/gconf"
)

const packageName = "splitter"

// MaxTimelock is the longest timelock, in seconds, that can be expressed as
// a duration.
const MaxTimelock = math.MaxInt64 / int64(time.Second)

// Configuration of the router, stored as the package gconf singleton.
type Configuration struct {
	Metadata *revsplit.Metadata `json:"metadata"`
	// Governor can move the router into the transition phase, schedule and
	// cancel splits.
	Governor revsplit.Address `json:"governor"`
	// Admin can activate the permanent split and change the destination
	// wallets. Admin is also the owner of this configuration.
	Admin revsplit.Address `json:"admin"`
	// MinTimelock is the shortest delay, in seconds, between scheduling a
	// split and applying it.
	MinTimelock int64 `json:"min_timelock"`
	// StableTicker is the ticker of the stable coin revenue.
	StableTicker string `json:"stable_ticker"`
	// NativeTicker is the ticker of the native asset revenue.
	NativeTicker string `json:"native_ticker"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// GetOwner returns the address allowed to update this configuration.
func (c *Configuration) GetOwner() revsplit.Address {
	return c.Admin
}

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := c.Governor.Validate(); err != nil {
		return errors.Wrap(err, "governor")
	}
	if err := c.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	if c.MinTimelock <= 0 {
		return errors.Wrap(errors.ErrInput, "minimal timelock must be positive")
	}
	if c.MinTimelock > MaxTimelock {
		return errors.Wrapf(errors.ErrInput, "minimal timelock must not exceed %d", MaxTimelock)
	}
	if !coin.IsCC(c.StableTicker) {
		return errors.Wrapf(errors.ErrCurrency, "stable ticker %q", c.StableTicker)
	}
	if !coin.IsCC(c.NativeTicker) {
		return errors.Wrapf(errors.ErrCurrency, "native ticker %q", c.NativeTicker)
	}
	if c.StableTicker == c.NativeTicker {
		return errors.Wrap(errors.ErrDuplicate, "stable and native tickers must differ")
	}
	return nil
}

// MinTimelockDuration returns the minimal timelock as a duration.
func (c *Configuration) MinTimelockDuration() time.Duration {
	return time.Duration(c.MinTimelock) * time.Second
}

func (c *Configuration) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if c.Metadata != nil {
		if err := w.Message(1, c.Metadata); err != nil {
			return nil, err
		}
	}
	w.Bytes(2, c.Governor)
	w.Bytes(3, c.Admin)
	w.Int64(4, c.MinTimelock)
	w.String(5, c.StableTicker)
	w.String(6, c.NativeTicker)
	return w.Result(), nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	r := codec.NewReader(raw)
	for r.More() {
		field, wire, err := r.Tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			c.Metadata = &revsplit.Metadata{}
			err = r.Message(c.Metadata)
		case 2:
			c.Governor, err = r.Bytes()
		case 3:
			c.Admin, err = r.Bytes()
		case 4:
			c.MinTimelock, err = r.Int64()
		case 5:
			c.StableTicker, err = r.String()
		case 6:
			c.NativeTicker, err = r.String()
		default:
			err = r.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
