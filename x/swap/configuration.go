package swap

import (
	"github.com/fxamacker/cbor/v2"

	ledger "github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/gconf"
)

const pkgName = "swap"

// Configuration holds the package level settings. It must be stored before
// any swap operation can be executed.
type Configuration struct {
	// Authority is the program identity under which all custody addresses
	// are derived. It is an address no private key controls.
	Authority ledger.Address `cbor:"1,keyasint"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cbor.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cbor.Unmarshal(raw, c)
}

// SaveConf stores the package configuration. It must be called once during
// initialization, before any swap message is processed.
func SaveConf(db ledger.KVStore, conf Configuration) error {
	return gconf.Save(db, pkgName, &conf)
}

func loadConf(db ledger.ReadOnlyKVStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, pkgName, &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
