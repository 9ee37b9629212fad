/*
Package gconf provides access to per-extension configuration singletons.

Configuration is loaded into the store once at initialization and read by
handlers at runtime. This keeps well-known global values, like the swap
program identity, out of the handler code.
*/
package gconf

import (
	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
)

// Configuration is implemented by every per-package configuration object.
type Configuration interface {
	ledger.Persistent

	// Validate returns an error if the configuration is not complete.
	Validate() error
}

func dbKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates the object and writes it to the configuration singleton for
// that package name.
func Save(db ledger.KVStore, pkg string, src Configuration) error {
	key := dbKey(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	return db.Set(key, raw)
}

// Load reads the configuration singleton for the given package into dst.
func Load(db ledger.ReadOnlyKVStore, pkg string, dst Configuration) error {
	key := dbKey(pkg)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrapf(err, "read: key %q", key)
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal: key %q", key)
	}
	return nil
}
