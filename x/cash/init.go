package cash

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
type GenesisAccount struct {
	Address revsplit.Address `json:"address"`
	Coins   coin.Coins       `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ revsplit.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts revsplit.Options, kv revsplit.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	control := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if c == nil {
				continue
			}
			if err := control.IssueCoins(kv, acct.Address, *c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
