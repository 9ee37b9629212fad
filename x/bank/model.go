package bank

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/orm"
)

// BucketName is where we store the balances.
const BucketName = "cash"

// Set holds the balance persisted for one wallet.
type Set struct {
	Balance uint64 `cbor:"1,keyasint"`
}

var _ orm.Model = (*Set)(nil)

func (s *Set) Validate() error {
	// Any balance, including zero, is valid.
	return nil
}

func (s *Set) Marshal() ([]byte, error) {
	return cbor.Marshal(s)
}

func (s *Set) Unmarshal(raw []byte) error {
	return cbor.Unmarshal(raw, s)
}

// Wallet is the actual object we pass around in our code. It contains a
// balance, as well as the address it belongs to. It is a type-safe wrapper
// around orm.SimpleObj.
type Wallet struct {
	obj *orm.SimpleObj
}

// NewWallet creates an empty wallet with this address.
func NewWallet(key ledger.Address) *Wallet {
	return &Wallet{
		obj: orm.NewSimpleObj(key, new(Set)),
	}
}

// WalletWith creates a wallet already holding a balance.
func WalletWith(key ledger.Address, balance uint64) *Wallet {
	w := NewWallet(key)
	w.set().Balance = balance
	return w
}

func (w *Wallet) set() *Set {
	return w.obj.Value().(*Set)
}

// Address returns the address this wallet belongs to.
func (w *Wallet) Address() ledger.Address {
	return ledger.Address(w.obj.Key())
}

// Balance returns the current balance.
func (w *Wallet) Balance() uint64 {
	return w.set().Balance
}

// Add modifies the wallet to add the given amount.
func (w *Wallet) Add(amount uint64) error {
	set := w.set()
	if set.Balance+amount < set.Balance {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	set.Balance += amount
	return nil
}

// Subtract modifies the wallet to remove the given amount. It fails when the
// balance is insufficient.
func (w *Wallet) Subtract(amount uint64) error {
	set := w.set()
	if set.Balance < amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: have %d, want %d", set.Balance, amount)
	}
	set.Balance -= amount
	return nil
}

// Bucket is a type-safe wrapper around orm.Bucket.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a bank.Bucket with the default name.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Set))),
	}
}

// Get returns the wallet stored under the address, or nil if none exists.
func (b Bucket) Get(db ledger.ReadOnlyKVStore, key ledger.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	simple, ok := obj.(*orm.SimpleObj)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "wallet %T", obj)
	}
	return &Wallet{obj: simple}, nil
}

// GetOrCreate returns the stored wallet or an empty one ready to be saved.
func (b Bucket) GetOrCreate(db ledger.ReadOnlyKVStore, key ledger.Address) (*Wallet, error) {
	wallet, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		wallet = NewWallet(key)
	}
	return wallet, nil
}

// Save persists the wallet.
func (b Bucket) Save(db ledger.KVStore, wallet *Wallet) error {
	return b.Bucket.Save(db, wallet.obj)
}

// Delete removes the wallet stored under the address.
func (b Bucket) Delete(db ledger.KVStore, key ledger.Address) error {
	return b.Bucket.Delete(db, key)
}
