package swap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/app"
	"github.com/helios-one/ledger/asset"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/ledgertest"
	"github.com/helios-one/ledger/orm"
	"github.com/helios-one/ledger/store"
	"github.com/helios-one/ledger/x/bank"
	"github.com/helios-one/ledger/x/token"
)

type fixture struct {
	db      ledger.KVStore
	auth    *ledgertest.CtxAuth
	router  *app.Router
	cash    bank.CashController
	tokens  token.AccountController
	bucket  orm.Bucket
	program ledger.Address
	mint    ledger.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := store.MemStore()
	program := ledger.NewCondition("swap", "program", []byte("test")).Address()
	require.NoError(t, SaveConf(db, Configuration{Authority: program}))

	auth := &ledgertest.CtxAuth{Key: "auth"}
	cash := bank.NewController(bank.NewBucket())
	tokens := token.NewController(token.NewBucket())
	router := app.NewRouter()
	RegisterRoutes(router, auth, cash, tokens)

	return &fixture{
		db:      db,
		auth:    auth,
		router:  router,
		cash:    cash,
		tokens:  tokens,
		bucket:  NewBucket(),
		program: program,
		mint:    ledger.NewCondition("token", "mint", []byte("USDX")).Address(),
	}
}

func (f *fixture) signedBy(conds ...ledger.Condition) ledger.Context {
	return f.auth.SetConditions(context.Background(), conds...)
}

func (f *fixture) deliver(ctx ledger.Context, msg ledger.Msg) (*ledger.DeliverResult, error) {
	return f.router.Deliver(ctx, f.db, &ledgertest.Tx{Msg: msg})
}

func (f *fixture) fundNative(t *testing.T, addr ledger.Address, amount uint64) {
	t.Helper()
	require.NoError(t, f.cash.IssueCoins(f.db, addr, amount))
}

// fundTokens sets up the owner's holding account for the fixture mint. A zero
// amount only creates the account.
func (f *fixture) fundTokens(t *testing.T, owner ledger.Address, amount uint64) ledger.Address {
	t.Helper()
	holding := token.HoldingAccountAddr(owner, f.mint)
	require.NoError(t, f.tokens.CreateAccount(f.db, holding, f.mint, owner))
	if amount > 0 {
		require.NoError(t, f.tokens.IssueTokens(f.db, holding, amount))
	}
	return holding
}

func (f *fixture) nativeBalance(t *testing.T, addr ledger.Address) uint64 {
	t.Helper()
	balance, err := f.cash.Balance(f.db, addr)
	require.NoError(t, err)
	return balance
}

func (f *fixture) tokenBalance(t *testing.T, addr ledger.Address) uint64 {
	t.Helper()
	acct, err := f.tokens.Account(f.db, addr)
	require.NoError(t, err)
	require.NotNil(t, acct)
	return acct.Balance
}

func (f *fixture) escrowFor(t *testing.T, owner ledger.Address) *Escrow {
	t.Helper()
	obj, err := f.bucket.Get(f.db, owner)
	require.NoError(t, err)
	return AsEscrow(obj)
}

func TestNativeSwapLifecycle(t *testing.T) {
	f := newFixture(t)
	maker := ledgertest.NewCondition()
	makerAddr := maker.Address()
	f.fundNative(t, makerAddr, 1000)

	initiate := &InitiateNativeSwapMsg{
		Offered: 400,
		Wanted:  asset.NewFungible(f.mint, 50),
	}
	res, err := f.deliver(f.signedBy(maker), initiate)
	require.NoError(t, err)

	custody, bump := EscrowAddress(f.program, makerAddr)
	assert.Equal(t, []byte(custody), res.Data)
	assert.Equal(t, uint64(400), f.nativeBalance(t, custody))
	assert.Equal(t, uint64(600), f.nativeBalance(t, makerAddr))

	escrow := f.escrowFor(t, makerAddr)
	require.NotNil(t, escrow)
	assert.True(t, escrow.Owner.Equals(makerAddr))
	assert.True(t, escrow.Offered.Equals(asset.NewNative(400)))
	assert.True(t, escrow.Wanted.Equals(asset.NewFungible(f.mint, 50)))
	assert.True(t, escrow.Address.Equals(custody))
	assert.Equal(t, bump, escrow.CustodyBump)

	// A second offer by the same owner is refused while one is open.
	_, err = f.deliver(f.signedBy(maker), initiate)
	assert.True(t, errors.ErrDuplicate.Is(err))

	// Someone else has no record under their own address to cancel.
	stranger := ledgertest.NewCondition()
	_, err = f.deliver(f.signedBy(stranger), &CancelSwapMsg{})
	assert.True(t, errors.ErrNotFound.Is(err))

	// An unsigned transaction cannot cancel anything.
	_, err = f.deliver(context.Background(), &CancelSwapMsg{})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = f.deliver(f.signedBy(maker), &CancelSwapMsg{})
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), f.nativeBalance(t, makerAddr))
	assert.Equal(t, uint64(0), f.nativeBalance(t, custody))
	assert.Nil(t, f.escrowFor(t, makerAddr))

	// The custody address is free again, a fresh offer can reuse it.
	_, err = f.deliver(f.signedBy(maker), initiate)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), f.nativeBalance(t, custody))
}

func TestTokenSwapLifecycle(t *testing.T) {
	f := newFixture(t)
	maker := ledgertest.NewCondition()
	makerAddr := maker.Address()
	holding := f.fundTokens(t, makerAddr, 500)

	initiate := &InitiateTokenSwapMsg{
		Mint:    f.mint,
		Offered: 200,
		Wanted:  asset.NewNative(1000),
	}
	_, err := f.deliver(f.signedBy(maker), initiate)
	require.NoError(t, err)

	custody, _ := EscrowAddress(f.program, makerAddr)
	vault, _ := TokenCustodyAddress(f.program, custody, f.mint)

	assert.Equal(t, uint64(300), f.tokenBalance(t, holding))
	assert.Equal(t, uint64(200), f.tokenBalance(t, vault))
	acct, err := f.tokens.Account(f.db, vault)
	require.NoError(t, err)
	assert.True(t, acct.Mint.Equals(f.mint))
	assert.True(t, acct.Authority.Equals(custody))

	escrow := f.escrowFor(t, makerAddr)
	require.NotNil(t, escrow)
	assert.True(t, escrow.Offered.Equals(asset.NewFungible(f.mint, 200)))

	_, err = f.deliver(f.signedBy(maker), &CancelSwapMsg{})
	require.NoError(t, err)

	assert.Equal(t, uint64(500), f.tokenBalance(t, holding))
	gone, err := f.tokens.Account(f.db, vault)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Nil(t, f.escrowFor(t, makerAddr))

	// Both derived accounts are free again for the next offer.
	_, err = f.deliver(f.signedBy(maker), initiate)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), f.tokenBalance(t, vault))
}

func TestInitiateSwapFailures(t *testing.T) {
	maker := ledgertest.NewCondition()
	mint := ledger.NewCondition("token", "mint", []byte("USDX")).Address()

	cases := map[string]struct {
		prep     func(t *testing.T, f *fixture)
		unsigned bool
		msg      ledger.Msg
		wantErr  *errors.Error
	}{
		"native with insufficient funds": {
			prep: func(t *testing.T, f *fixture) {
				f.fundNative(t, maker.Address(), 100)
			},
			msg:     &InitiateNativeSwapMsg{Offered: 400, Wanted: asset.NewNative(5)},
			wantErr: errors.ErrAmount,
		},
		"native with no wallet": {
			msg:     &InitiateNativeSwapMsg{Offered: 400, Wanted: asset.NewNative(5)},
			wantErr: errors.ErrEmpty,
		},
		"native with zero offer": {
			msg:     &InitiateNativeSwapMsg{Offered: 0, Wanted: asset.NewNative(5)},
			wantErr: errors.ErrAmount,
		},
		"native unsigned": {
			unsigned: true,
			msg:      &InitiateNativeSwapMsg{Offered: 400, Wanted: asset.NewNative(5)},
			wantErr:  errors.ErrUnauthorized,
		},
		"token without holding account": {
			msg:     &InitiateTokenSwapMsg{Mint: mint, Offered: 200, Wanted: asset.NewNative(5)},
			wantErr: errors.ErrNotFound,
		},
		"token with insufficient balance": {
			prep: func(t *testing.T, f *fixture) {
				f.fundTokens(t, maker.Address(), 100)
			},
			msg:     &InitiateTokenSwapMsg{Mint: mint, Offered: 200, Wanted: asset.NewNative(5)},
			wantErr: errors.ErrAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.mint = mint
			if tc.prep != nil {
				tc.prep(t, f)
			}
			ctx := f.signedBy(maker)
			if tc.unsigned {
				ctx = context.Background()
			}
			_, err := f.deliver(ctx, tc.msg)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
			// Nothing is left behind by a refused initiation.
			assert.Nil(t, f.escrowFor(t, maker.Address()))
		})
	}
}

func TestFulfillNativeForToken(t *testing.T) {
	f := newFixture(t)
	maker := ledgertest.NewCondition()
	taker := ledgertest.NewCondition()
	makerAddr := maker.Address()
	takerAddr := taker.Address()

	f.fundNative(t, makerAddr, 1000)
	makerHolding := f.fundTokens(t, makerAddr, 0)
	takerHolding := f.fundTokens(t, takerAddr, 80)

	_, err := f.deliver(f.signedBy(maker), &InitiateNativeSwapMsg{
		Offered: 400,
		Wanted:  asset.NewFungible(f.mint, 50),
	})
	require.NoError(t, err)

	_, err = f.deliver(f.signedBy(taker), &FulfillSwapMsg{Owner: makerAddr})
	require.NoError(t, err)

	custody, _ := EscrowAddress(f.program, makerAddr)
	assert.Equal(t, uint64(50), f.tokenBalance(t, makerHolding))
	assert.Equal(t, uint64(30), f.tokenBalance(t, takerHolding))
	assert.Equal(t, uint64(400), f.nativeBalance(t, takerAddr))
	assert.Equal(t, uint64(600), f.nativeBalance(t, makerAddr))
	assert.Equal(t, uint64(0), f.nativeBalance(t, custody))
	assert.Nil(t, f.escrowFor(t, makerAddr))
}

func TestFulfillTokenForNative(t *testing.T) {
	f := newFixture(t)
	maker := ledgertest.NewCondition()
	taker := ledgertest.NewCondition()
	makerAddr := maker.Address()
	takerAddr := taker.Address()

	makerHolding := f.fundTokens(t, makerAddr, 500)
	takerHolding := f.fundTokens(t, takerAddr, 0)
	f.fundNative(t, takerAddr, 1500)

	_, err := f.deliver(f.signedBy(maker), &InitiateTokenSwapMsg{
		Mint:    f.mint,
		Offered: 200,
		Wanted:  asset.NewNative(1000),
	})
	require.NoError(t, err)

	_, err = f.deliver(f.signedBy(taker), &FulfillSwapMsg{Owner: makerAddr})
	require.NoError(t, err)

	custody, _ := EscrowAddress(f.program, makerAddr)
	vault, _ := TokenCustodyAddress(f.program, custody, f.mint)
	assert.Equal(t, uint64(1000), f.nativeBalance(t, makerAddr))
	assert.Equal(t, uint64(500), f.nativeBalance(t, takerAddr))
	assert.Equal(t, uint64(300), f.tokenBalance(t, makerHolding))
	assert.Equal(t, uint64(200), f.tokenBalance(t, takerHolding))
	gone, err := f.tokens.Account(f.db, vault)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Nil(t, f.escrowFor(t, makerAddr))
}

func TestFulfillSwapFailures(t *testing.T) {
	maker := ledgertest.NewCondition()
	taker := ledgertest.NewCondition()

	openNative := func(t *testing.T, f *fixture) {
		f.fundNative(t, maker.Address(), 1000)
		_, err := f.deliver(f.signedBy(maker), &InitiateNativeSwapMsg{
			Offered: 400,
			Wanted:  asset.NewNative(700),
		})
		require.NoError(t, err)
	}

	cases := map[string]struct {
		prep    func(t *testing.T, f *fixture)
		signer  ledger.Condition
		owner   ledger.Address
		wantErr *errors.Error
	}{
		"no open swap": {
			signer:  taker,
			owner:   maker.Address(),
			wantErr: errors.ErrNotFound,
		},
		"own swap": {
			prep:    openNative,
			signer:  maker,
			owner:   maker.Address(),
			wantErr: errors.ErrState,
		},
		"unsigned": {
			prep:    openNative,
			owner:   maker.Address(),
			wantErr: errors.ErrUnauthorized,
		},
		"taker cannot pay": {
			prep: func(t *testing.T, f *fixture) {
				openNative(t, f)
				f.fundNative(t, taker.Address(), 100)
			},
			signer:  taker,
			owner:   maker.Address(),
			wantErr: errors.ErrAmount,
		},
		"taker has no holding for offered tokens": {
			prep: func(t *testing.T, f *fixture) {
				f.fundTokens(t, maker.Address(), 500)
				f.fundNative(t, taker.Address(), 1000)
				_, err := f.deliver(f.signedBy(maker), &InitiateTokenSwapMsg{
					Mint:    f.mint,
					Offered: 200,
					Wanted:  asset.NewNative(700),
				})
				require.NoError(t, err)
			},
			signer:  taker,
			owner:   maker.Address(),
			wantErr: errors.ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.prep != nil {
				tc.prep(t, f)
			}
			ctx := context.Background()
			if tc.signer != nil {
				ctx = f.signedBy(tc.signer)
			}
			_, err := f.deliver(ctx, &FulfillSwapMsg{Owner: tc.owner})
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestCheckAllocatesGas(t *testing.T) {
	f := newFixture(t)
	maker := ledgertest.NewCondition()
	f.fundNative(t, maker.Address(), 1000)

	res, err := f.router.Check(f.signedBy(maker), f.db, &ledgertest.Tx{
		Msg: &InitiateNativeSwapMsg{Offered: 400, Wanted: asset.NewNative(5)},
	})
	require.NoError(t, err)
	assert.Equal(t, initiateSwapCost, res.GasAllocated)
}
