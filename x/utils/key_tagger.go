package utils

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/store"
	"github.com/tendermint/tendermint/libs/common"
)

// KeyTagger is a decorate that records all Set/Delete
// operations performed by it's children and adds all those keys
// as DeliverTx tags
type KeyTagger struct{}

var _ revsplit.Decorator = KeyTagger{}

// NewKeyTagger creates a KeyTagger decorator
func NewKeyTagger() KeyTagger {
	return KeyTagger{}
}

// Check does nothing
func (KeyTagger) Check(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx, next revsplit.Checker) (*revsplit.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver passes in a recording KVStore into the child and
// uses that to calculate tags to add to DeliverResult
func (KeyTagger) Deliver(ctx revsplit.Context, db revsplit.KVStore, tx revsplit.Tx, next revsplit.Deliverer) (*revsplit.DeliverResult, error) {
	record := store.NewRecordingStore(db)
	res, err := next.Deliver(ctx, record, tx)
	if err != nil {
		return nil, err
	}

	res.Tags = append(res.Tags, changesToTags(record.(store.Recorder).KVPairs())...)
	return res, nil
}

var (
	recordSet    = []byte("s")
	recordDelete = []byte("d")
)

// changesToTags returns one tag per changed key. The key is upper case hex
// encoded, the value is "s" for set and "d" for delete. Tags are sorted.
func changesToTags(changes map[string][]byte) common.KVPairs {
	l := len(changes)
	if l == 0 {
		return nil
	}
	res := make(common.KVPairs, 0, l)
	for k, v := range changes {
		tag := recordSet
		if v == nil {
			tag = recordDelete
		}
		pair := common.KVPair{
			Key:   []byte(strings.ToUpper(hex.EncodeToString([]byte(k)))),
			Value: tag,
		}
		res = append(res, pair)
	}
	res.Sort()
	return res
}
