package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	revsplit.Persistent
	Validate() error
}

// ModelBucket stores models of a single type under a common prefix.
type ModelBucket struct {
	name   string
	prefix []byte
	model  reflect.Type
}

// NewModelBucket returns a bucket that stores models of the same type as the
// given one. Bucket name must be 3 to 10 lower case characters.
func NewModelBucket(name string, m Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model must be a pointer, got %T", m))
	}
	return ModelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		model:  tp,
	}
}

// Name returns the name of this bucket.
func (b ModelBucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b ModelBucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One query the database for a single model instance. Lookup is done by the
// primary key. Result is loaded into given destination model.
// This method returns ErrNotFound if the entity does not exist in the
// database. If given model type cannot be used to contain stored entity,
// ErrType is returned.
func (b ModelBucket) One(db revsplit.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != b.model {
		return errors.Wrapf(errors.ErrType, "%s bucket cannot load into %T", b.name, dest)
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	return nil
}

// Has returns nil if an entity with given key exists and ErrNotFound
// otherwise.
func (b ModelBucket) Has(db revsplit.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s bucket", b.name)
	}
	return nil
}

// Put saves given model in the database. Model is validated before saving.
func (b ModelBucket) Put(db revsplit.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != b.model {
		return errors.Wrapf(errors.ErrType, "%s bucket cannot store %T", b.name, m)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b ModelBucket) Delete(db revsplit.KVStore, key []byte) error {
	if err := b.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Each calls fn for every stored entity in key order. Loaded models are new
// instances. Returning an error from fn stops the iteration and that error is
// returned.
func (b ModelBucket) Each(db revsplit.ReadOnlyKVStore, fn func(key []byte, m Model) error) error {
	end := prefixEnd(b.prefix)
	it, err := db.Iterator(b.prefix, end)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Close()

	for it.Valid() {
		m := reflect.New(b.model.Elem()).Interface().(Model)
		if err := m.Unmarshal(it.Value()); err != nil {
			return errors.Wrapf(err, "cannot unmarshal %T", m)
		}
		key := it.Key()[len(b.prefix):]
		if err := fn(key, m); err != nil {
			return err
		}
		if err := it.Next(); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return nil
}

// prefixEnd returns the smallest key that is greater than all keys starting
// with given prefix.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
