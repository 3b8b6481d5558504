package app

import (
	"encoding/json"
	"os"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
)

// Genesis is used to deserialize a genesis file
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis reads a genesis file from given location.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "cannot read genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "cannot parse genesis file: %s", err)
	}
	return gen, nil
}

// ChainInitializers takes a list of Initializers and returns one that calls
// all of them in order.
func ChainInitializers(inits ...revsplit.Initializer) revsplit.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []revsplit.Initializer
}

// FromGenesis passes the options to every initializer in order, and returns
// the first error encountered.
func (c chainInitializer) FromGenesis(opts revsplit.Options, kv revsplit.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
