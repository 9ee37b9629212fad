package token

import (
	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/orm"
	"github.com/helios-one/ledger/x"
)

// Controller is the token account surface consumed by other extensions.
type Controller interface {
	// Account returns the token account stored under the address, or nil
	// if none exists.
	Account(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Account, error)

	// CreateAccount creates an empty token account. It fails with
	// ErrDuplicate when the address is already taken.
	CreateAccount(db ledger.KVStore, addr, mint, authority ledger.Address) error

	// MoveTokens debits src and credits dest. Both accounts must exist
	// and hold the same mint, and the authority must be valid for the
	// source account's recorded authority.
	MoveTokens(ctx ledger.Context, db ledger.KVStore, src, dest ledger.Address, amount uint64, authority x.Authority) error

	// CloseAccount removes an account whose balance is zero.
	CloseAccount(ctx ledger.Context, db ledger.KVStore, addr ledger.Address, authority x.Authority) error
}

// AccountController implements Controller over the account bucket.
type AccountController struct {
	bucket orm.Bucket
}

var _ Controller = AccountController{}

// NewController returns a controller using the given bucket.
func NewController(bucket orm.Bucket) AccountController {
	return AccountController{bucket: bucket}
}

func (c AccountController) Account(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Account, error) {
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return AsAccount(obj), nil
}

func (c AccountController) CreateAccount(db ledger.KVStore, addr, mint, authority ledger.Address) error {
	ok, err := c.bucket.Has(db, addr)
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "token account %s", addr)
	}
	acct := &Account{
		Mint:      mint.Clone(),
		Authority: authority.Clone(),
	}
	return c.bucket.Save(db, orm.NewSimpleObj(addr, acct))
}

func (c AccountController) MoveTokens(ctx ledger.Context, db ledger.KVStore, src, dest ledger.Address, amount uint64, authority x.Authority) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrState, "cannot transfer to itself")
	}

	sender, err := c.Account(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrNotFound, "token account %s", src)
	}
	recipient, err := c.Account(db, dest)
	if err != nil {
		return err
	}
	if recipient == nil {
		return errors.Wrapf(errors.ErrNotFound, "token account %s", dest)
	}
	if !sender.Mint.Equals(recipient.Mint) {
		return errors.Wrapf(errors.ErrState, "mint mismatch: %s vs %s", sender.Mint, recipient.Mint)
	}

	// Token movements are authorized against the account's recorded
	// authority, not the account address itself.
	if err := authority.Allows(ctx, sender.Authority); err != nil {
		return err
	}

	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: have %d, want %d", sender.Balance, amount)
	}
	if recipient.Balance+amount < recipient.Balance {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	sender.Balance -= amount
	recipient.Balance += amount

	if err := c.bucket.Save(db, orm.NewSimpleObj(src, sender)); err != nil {
		return err
	}
	return c.bucket.Save(db, orm.NewSimpleObj(dest, recipient))
}

func (c AccountController) CloseAccount(ctx ledger.Context, db ledger.KVStore, addr ledger.Address, authority x.Authority) error {
	acct, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if acct == nil {
		return errors.Wrapf(errors.ErrNotFound, "token account %s", addr)
	}
	if acct.Balance != 0 {
		return errors.Wrapf(errors.ErrState, "cannot close account holding %d", acct.Balance)
	}
	if err := authority.Allows(ctx, acct.Authority); err != nil {
		return err
	}
	return c.bucket.Delete(db, addr)
}

// IssueTokens adds the given amount to an existing account, out of thin air.
// Used by genesis initialization and tests only.
func (c AccountController) IssueTokens(db ledger.KVStore, addr ledger.Address, amount uint64) error {
	acct, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if acct == nil {
		return errors.Wrapf(errors.ErrNotFound, "token account %s", addr)
	}
	if acct.Balance+amount < acct.Balance {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	acct.Balance += amount
	return c.bucket.Save(db, orm.NewSimpleObj(addr, acct))
}
