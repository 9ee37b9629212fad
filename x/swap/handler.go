package swap

import (
	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/asset"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/orm"
	"github.com/helios-one/ledger/x"
	"github.com/helios-one/ledger/x/bank"
	"github.com/helios-one/ledger/x/token"
)

const (
	initiateSwapCost int64 = 300
	settleSwapCost   int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, cash bank.Controller, tokens token.Controller) {
	bucket := NewBucket()
	r.Handle(pathInitiateNativeSwapMsg, InitiateNativeSwapHandler{
		auth:   auth,
		bucket: bucket,
		cash:   cash,
	})
	r.Handle(pathInitiateTokenSwapMsg, InitiateTokenSwapHandler{
		auth:   auth,
		bucket: bucket,
		tokens: tokens,
	})
	r.Handle(pathCancelSwapMsg, CancelSwapHandler{
		auth:   auth,
		bucket: bucket,
		cash:   cash,
		tokens: tokens,
	})
	r.Handle(pathFulfillSwapMsg, FulfillSwapHandler{
		auth:   auth,
		bucket: bucket,
		cash:   cash,
		tokens: tokens,
	})
}

// InitiateNativeSwapHandler opens a swap backed by a native currency deposit.
type InitiateNativeSwapHandler struct {
	auth   x.Authenticator
	bucket orm.Bucket
	cash   bank.Controller
}

var _ ledger.Handler = InitiateNativeSwapHandler{}

func (h InitiateNativeSwapHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: initiateSwapCost}, nil
}

func (h InitiateNativeSwapHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, owner, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	custody, bump := EscrowAddress(conf.Authority, owner)
	if err := h.cash.MoveCoins(ctx, db, owner, custody, msg.Offered, x.SignedBy(h.auth)); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	escrow := &Escrow{
		Owner:       owner,
		Offered:     asset.NewNative(msg.Offered),
		Wanted:      msg.Wanted,
		Address:     custody,
		CustodyBump: bump,
	}
	if err := h.bucket.Save(db, orm.NewSimpleObj(owner, escrow)); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: custody}, nil
}

// validate returns the message, the maker's address and the package
// configuration, or an error if the swap must not be opened.
func (h InitiateNativeSwapHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*InitiateNativeSwapMsg, ledger.Address, Configuration, error) {
	var conf Configuration
	var msg InitiateNativeSwapMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, conf, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, conf, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	owner := signer.Address()

	switch open, err := h.bucket.Has(db, owner); {
	case err != nil:
		return nil, nil, conf, err
	case open:
		return nil, nil, conf, errors.Wrapf(errors.ErrDuplicate, "open swap for %s", owner)
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, conf, err
	}
	return &msg, owner, conf, nil
}

// InitiateTokenSwapHandler opens a swap backed by a fungible token deposit.
type InitiateTokenSwapHandler struct {
	auth   x.Authenticator
	bucket orm.Bucket
	tokens token.Controller
}

var _ ledger.Handler = InitiateTokenSwapHandler{}

func (h InitiateTokenSwapHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: initiateSwapCost}, nil
}

func (h InitiateTokenSwapHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, owner, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	custody, bump := EscrowAddress(conf.Authority, owner)
	vault, _ := TokenCustodyAddress(conf.Authority, custody, msg.Mint)
	if err := h.tokens.CreateAccount(db, vault, msg.Mint, custody); err != nil {
		return nil, errors.Wrap(err, "custody account")
	}
	holding := token.HoldingAccountAddr(owner, msg.Mint)
	if err := h.tokens.MoveTokens(ctx, db, holding, vault, msg.Offered, x.SignedBy(h.auth)); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	escrow := &Escrow{
		Owner:       owner,
		Offered:     asset.NewFungible(msg.Mint, msg.Offered),
		Wanted:      msg.Wanted,
		Address:     custody,
		CustodyBump: bump,
	}
	if err := h.bucket.Save(db, orm.NewSimpleObj(owner, escrow)); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: custody}, nil
}

func (h InitiateTokenSwapHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*InitiateTokenSwapMsg, ledger.Address, Configuration, error) {
	var conf Configuration
	var msg InitiateTokenSwapMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, conf, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, conf, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	owner := signer.Address()

	switch open, err := h.bucket.Has(db, owner); {
	case err != nil:
		return nil, nil, conf, err
	case open:
		return nil, nil, conf, errors.Wrapf(errors.ErrDuplicate, "open swap for %s", owner)
	}

	// A holding account for the offered mint must exist before the deposit
	// can be collected. A wrong mint shows up here as a missing account,
	// because the holding address is derived from owner and mint together.
	holding := token.HoldingAccountAddr(owner, msg.Mint)
	switch acct, err := h.tokens.Account(db, holding); {
	case err != nil:
		return nil, nil, conf, err
	case acct == nil:
		return nil, nil, conf, errors.Wrapf(errors.ErrNotFound, "no holding account for mint %s", msg.Mint)
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, conf, err
	}
	return &msg, owner, conf, nil
}

// CancelSwapHandler closes the signer's open swap and returns the deposit.
type CancelSwapHandler struct {
	auth   x.Authenticator
	bucket orm.Bucket
	cash   bank.Controller
	tokens token.Controller
}

var _ ledger.Handler = CancelSwapHandler{}

func (h CancelSwapHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: settleSwapCost}, nil
}

func (h CancelSwapHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	escrow, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	custodyAuth := x.DerivedFrom(EscrowProof(conf.Authority, escrow.Owner, escrow.CustodyBump))
	if err := releaseCustody(ctx, db, h.cash, h.tokens, conf, escrow, escrow.Owner, custodyAuth); err != nil {
		return nil, err
	}

	if err := h.bucket.Delete(db, escrow.Owner); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: escrow.Address}, nil
}

func (h CancelSwapHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*Escrow, Configuration, error) {
	var conf Configuration
	var msg CancelSwapMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, conf, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, conf, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	owner := signer.Address()

	obj, err := h.bucket.Get(db, owner)
	if err != nil {
		return nil, conf, err
	}
	escrow := AsEscrow(obj)
	if escrow == nil {
		return nil, conf, errors.Wrapf(errors.ErrNotFound, "no open swap for %s", owner)
	}
	if !h.auth.HasAddress(ctx, escrow.Owner) {
		return nil, conf, errors.Wrap(errors.ErrUnauthorized, "only the owner can cancel")
	}

	conf, err = loadConf(db)
	if err != nil {
		return nil, conf, err
	}
	return escrow, conf, nil
}

// releaseCustody hands the full custody balance to the recipient and tears
// the custody accounts down. Shared by cancellation, where the recipient is
// the owner, and fulfillment, where it is the taker. The offered kind is
// dispatched exhaustively; an unknown kind is corrupted state.
func releaseCustody(ctx ledger.Context, db ledger.KVStore, cash bank.Controller, tokens token.Controller, conf Configuration, escrow *Escrow, recipient ledger.Address, custodyAuth x.Authority) error {
	switch escrow.Offered.Kind {
	case asset.Native:
		if err := cash.CloseAccount(ctx, db, escrow.Address, recipient, custodyAuth); err != nil {
			return errors.Wrap(err, "release deposit")
		}
	case asset.Fungible:
		mint := escrow.Offered.Mint
		vault, _ := TokenCustodyAddress(conf.Authority, escrow.Address, mint)
		acct, err := tokens.Account(db, vault)
		if err != nil {
			return err
		}
		if acct == nil {
			return errors.Wrapf(errors.ErrNotFound, "custody account %s", vault)
		}
		holding := token.HoldingAccountAddr(recipient, mint)
		// The whole custody balance moves, not the recorded amount, so a
		// stray deposit into the custody account cannot wedge the close.
		if err := tokens.MoveTokens(ctx, db, vault, holding, acct.Balance, custodyAuth); err != nil {
			return errors.Wrap(err, "release deposit")
		}
		if err := tokens.CloseAccount(ctx, db, vault, custodyAuth); err != nil {
			return errors.Wrap(err, "custody account")
		}
		// A stray native balance under the custody address is swept too.
		switch balance, err := cash.Balance(db, escrow.Address); {
		case err != nil:
			return err
		case balance > 0:
			if err := cash.CloseAccount(ctx, db, escrow.Address, recipient, custodyAuth); err != nil {
				return err
			}
		}
	default:
		return errors.Wrapf(errors.ErrType, "asset kind %d", escrow.Offered.Kind)
	}
	return nil
}

// FulfillSwapHandler settles an open swap between its owner and the signer.
type FulfillSwapHandler struct {
	auth   x.Authenticator
	bucket orm.Bucket
	cash   bank.Controller
	tokens token.Controller
}

var _ ledger.Handler = FulfillSwapHandler{}

func (h FulfillSwapHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: settleSwapCost}, nil
}

func (h FulfillSwapHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	taker, escrow, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// First the taker pays the wanted asset to the owner, authorized by
	// their own signature.
	signed := x.SignedBy(h.auth)
	switch escrow.Wanted.Kind {
	case asset.Native:
		if err := h.cash.MoveCoins(ctx, db, taker, escrow.Owner, escrow.Wanted.Amount, signed); err != nil {
			return nil, errors.Wrap(err, "pay wanted")
		}
	case asset.Fungible:
		src := token.HoldingAccountAddr(taker, escrow.Wanted.Mint)
		dest := token.HoldingAccountAddr(escrow.Owner, escrow.Wanted.Mint)
		if err := h.tokens.MoveTokens(ctx, db, src, dest, escrow.Wanted.Amount, signed); err != nil {
			return nil, errors.Wrap(err, "pay wanted")
		}
	default:
		return nil, errors.Wrapf(errors.ErrType, "asset kind %d", escrow.Wanted.Kind)
	}

	// Then the custody balance is released to the taker under the derived
	// authority and the record is removed, the same teardown a cancellation
	// performs.
	custodyAuth := x.DerivedFrom(EscrowProof(conf.Authority, escrow.Owner, escrow.CustodyBump))
	if err := releaseCustody(ctx, db, h.cash, h.tokens, conf, escrow, taker, custodyAuth); err != nil {
		return nil, err
	}

	if err := h.bucket.Delete(db, escrow.Owner); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: escrow.Address}, nil
}

func (h FulfillSwapHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.Address, *Escrow, Configuration, error) {
	var conf Configuration
	var msg FulfillSwapMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, conf, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, conf, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	taker := signer.Address()

	obj, err := h.bucket.Get(db, msg.Owner)
	if err != nil {
		return nil, nil, conf, err
	}
	escrow := AsEscrow(obj)
	if escrow == nil {
		return nil, nil, conf, errors.Wrapf(errors.ErrNotFound, "no open swap for %s", msg.Owner)
	}
	if taker.Equals(escrow.Owner) {
		return nil, nil, conf, errors.Wrap(errors.ErrState, "cannot fulfill own swap")
	}

	conf, err = loadConf(db)
	if err != nil {
		return nil, nil, conf, err
	}
	return taker, escrow, conf, nil
}
