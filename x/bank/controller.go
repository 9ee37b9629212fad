package bank

import (
	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/x"
)

// CoinMover is the subset of the controller that moves native funds.
type CoinMover interface {
	// MoveCoins debits src and credits dest. It fails when src's balance
	// is insufficient or the authority is not valid for src.
	MoveCoins(ctx ledger.Context, db ledger.KVStore, src, dest ledger.Address, amount uint64, authority x.Authority) error
}

// Controller is the full native currency surface consumed by other
// extensions.
type Controller interface {
	CoinMover

	// Balance returns the funds held under the address. A missing wallet
	// holds zero.
	Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error)

	// CloseAccount sweeps the remaining balance of addr to rentTo and
	// removes the wallet, as a single step.
	CloseAccount(ctx ledger.Context, db ledger.KVStore, addr, rentTo ledger.Address, authority x.Authority) error

	// IssueCoins adds the given amount out of thin air. Used by genesis
	// initialization and tests only.
	IssueCoins(db ledger.KVStore, dest ledger.Address, amount uint64) error
}

// CashController implements Controller over the wallet bucket.
type CashController struct {
	bucket Bucket
}

var _ Controller = CashController{}

// NewController returns a controller using the given bucket.
func NewController(bucket Bucket) CashController {
	return CashController{bucket: bucket}
}

func (c CashController) Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error) {
	wallet, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, err
	}
	if wallet == nil {
		return 0, nil
	}
	return wallet.Balance(), nil
}

func (c CashController) MoveCoins(ctx ledger.Context, db ledger.KVStore, src, dest ledger.Address, amount uint64, authority x.Authority) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrState, "cannot transfer to itself")
	}
	if err := authority.Allows(ctx, src); err != nil {
		return err
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "account %s", src)
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

func (c CashController) CloseAccount(ctx ledger.Context, db ledger.KVStore, addr, rentTo ledger.Address, authority x.Authority) error {
	if addr.Equals(rentTo) {
		return errors.Wrap(errors.ErrState, "cannot close an account into itself")
	}
	if err := authority.Allows(ctx, addr); err != nil {
		return err
	}

	wallet, err := c.bucket.Get(db, addr)
	if err != nil {
		return err
	}
	if wallet == nil {
		return errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}

	if balance := wallet.Balance(); balance > 0 {
		recipient, err := c.bucket.GetOrCreate(db, rentTo)
		if err != nil {
			return err
		}
		if err := recipient.Add(balance); err != nil {
			return err
		}
		if err := c.bucket.Save(db, recipient); err != nil {
			return err
		}
	}
	return c.bucket.Delete(db, addr)
}

func (c CashController) IssueCoins(db ledger.KVStore, dest ledger.Address, amount uint64) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}
