package splitter

import (
	"context"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/gconf"
)

const optKey = "splitter"

// GenesisRouter is the router declaration in the genesis file.
type GenesisRouter struct {
	Wallets Wallets `json:"wallets"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	// Metrics are optional.
	Metrics *Metrics
}

var _ revsplit.Initializer = (*Initializer)(nil)

// FromGenesis stores the package configuration and creates the router.
// Both the configuration and the router declaration are required.
func (i *Initializer) FromGenesis(opts revsplit.Options, db revsplit.KVStore) error {
	if err := gconf.InitConfig(db, opts, packageName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	if opts[optKey] == nil {
		return errors.Wrap(errors.ErrNotFound, "no router in genesis")
	}
	var gen GenesisRouter
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	// Creating a router requires neither roles nor cash.
	ctrl := NewController(nil, nil, nil).WithMetrics(i.Metrics)
	if err := ctrl.Create(context.Background(), db, &gen.Wallets); err != nil {
		return errors.Wrap(err, "create router")
	}
	return nil
}
