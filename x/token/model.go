package token

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/orm"
)

// BucketName is where we store the token accounts.
const BucketName = "tacct"

// Account is the persisted state of one token account.
type Account struct {
	// Mint identifies the token type held by this account. Immutable.
	Mint ledger.Address `cbor:"1,keyasint"`
	// Authority is the address allowed to move the balance. It can be a
	// user address or a program derived one.
	Authority ledger.Address `cbor:"2,keyasint"`
	// Balance in the token's smallest unit.
	Balance uint64 `cbor:"3,keyasint"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	if err := a.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := a.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	return nil
}

func (a *Account) Marshal() ([]byte, error) {
	return cbor.Marshal(a)
}

func (a *Account) Unmarshal(raw []byte) error {
	return cbor.Unmarshal(raw, a)
}

// AsAccount extracts an *Account value or nil from the object. Must be
// called on a bucket result that is an account; will panic on a bad type.
func AsAccount(obj orm.Object) *Account {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Account)
}

// NewBucket initializes the token account bucket.
func NewBucket() orm.Bucket {
	return orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Account)))
}

// HoldingAccountAddr is the deterministic address of the account holding a
// given mint for a given owner. Both initiation and cancellation resolve the
// owner's account through this, so they always agree on the location.
func HoldingAccountAddr(owner, mint ledger.Address) ledger.Address {
	seed := make([]byte, 0, len(owner)+len(mint))
	seed = append(seed, owner...)
	seed = append(seed, mint...)
	return ledger.NewCondition("token", "acct", seed).Address()
}
