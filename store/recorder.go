package store

import (
	"github.com/iov-one/revsplit"
)

// Recorder interface is implemented by anything returned from
// NewRecordingStore
type Recorder interface {
	// KVPairs returns all changes. Key is the store key that changed, value
	// is the value written or nil for a delete.
	KVPairs() map[string][]byte
}

// NewRecordingStore initializes a recording store wrapping this
// base store, using cached alternative if possible
//
// The cacheable variant is preserved so that downstream components (like
// Savepoint) can still CacheWrap the store.
func NewRecordingStore(db revsplit.KVStore) revsplit.KVStore {
	changes := make(map[string][]byte)
	if cached, ok := db.(revsplit.CacheableKVStore); ok {
		return &cacheableRecordingStore{
			CacheableKVStore: cached,
			changes:          changes,
		}
	}
	return &recordingStore{
		KVStore: db,
		changes: changes,
	}
}

// recordingStore wraps a normal KVStore and records any change operations
type recordingStore struct {
	revsplit.KVStore
	changes map[string][]byte
}

var _ revsplit.KVStore = (*recordingStore)(nil)
var _ Recorder = (*recordingStore)(nil)

func (r *recordingStore) KVPairs() map[string][]byte {
	return r.changes
}

// Set records the changes while performing
func (r *recordingStore) Set(key, value []byte) error {
	if err := r.KVStore.Set(key, value); err != nil {
		return err
	}
	r.changes[string(key)] = value
	return nil
}

// Delete records the changes while performing
func (r *recordingStore) Delete(key []byte) error {
	if err := r.KVStore.Delete(key); err != nil {
		return err
	}
	r.changes[string(key)] = nil
	return nil
}

// NewBatch makes sure all writes go through this one
func (r *recordingStore) NewBatch() revsplit.Batch {
	return NewNonAtomicBatch(r)
}

// cacheableRecordingStore wraps a CacheableKVStore
// and records any change operations
type cacheableRecordingStore struct {
	revsplit.CacheableKVStore
	changes map[string][]byte
}

var _ revsplit.CacheableKVStore = (*cacheableRecordingStore)(nil)
var _ Recorder = (*cacheableRecordingStore)(nil)

func (r *cacheableRecordingStore) KVPairs() map[string][]byte {
	return r.changes
}

// Set records the changes while performing
func (r *cacheableRecordingStore) Set(key, value []byte) error {
	if err := r.CacheableKVStore.Set(key, value); err != nil {
		return err
	}
	r.changes[string(key)] = value
	return nil
}

// Delete records the changes while performing
func (r *cacheableRecordingStore) Delete(key []byte) error {
	if err := r.CacheableKVStore.Delete(key); err != nil {
		return err
	}
	r.changes[string(key)] = nil
	return nil
}

// NewBatch makes sure all writes go through this one
func (r *cacheableRecordingStore) NewBatch() revsplit.Batch {
	return NewNonAtomicBatch(r)
}

// CacheWrap makes sure all cached writes also go through this store. Only
// changes that are written down are recorded, discarded ones are not.
func (r *cacheableRecordingStore) CacheWrap() revsplit.KVCacheWrap {
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}
