/*
Package orm provides an easy to use db wrapper.

It breaks the state space into prefixed sections called buckets. Each bucket
contains only one type of object, addressed by its primary key. Buckets are a
generic building block that should be embedded in a type-safe wrapper to
ensure all data is the same type.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed subspace of the db. proto defines the default model,
// all elements of this bucket are of this type.
type Bucket struct {
	name   string
	prefix []byte
	proto  Object
}

// NewBucket creates a bucket to store data.
func NewBucket(name string, proto Object) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including the prefix. We copy
// into a new array rather than use append, as we don't want consecutive
// calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element, or nil if none is stored under the key.
func (b Bucket) Get(db ledger.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "cannot read bucket")
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Has checks if an element is stored under the key without parsing it.
func (b Bucket) Has(db ledger.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse takes a key and value data and reconstructs the data this bucket
// would return. Used internally as part of Get; exposed mainly as a test
// helper.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrap(err, "cannot parse stored value")
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write a model, it must be of the same type as proto.
func (b Bucket) Save(db ledger.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return errors.Wrap(err, "invalid object")
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize object")
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete will remove the value at a key.
func (b Bucket) Delete(db ledger.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}
