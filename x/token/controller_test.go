package token

import (
	"context"
	"testing"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/ledgertest"
	"github.com/helios-one/ledger/store"
	"github.com/helios-one/ledger/x"
)

func TestCreateAccount(t *testing.T) {
	mint := ledger.NewAddress([]byte("mint"))
	owner := ledgertest.NewCondition().Address()
	addr := HoldingAccountAddr(owner, mint)

	db := store.MemStore()
	ctrl := NewController(NewBucket())

	if err := ctrl.CreateAccount(db, addr, mint, owner); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	acct, err := ctrl.Account(db, addr)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if !acct.Mint.Equals(mint) || !acct.Authority.Equals(owner) || acct.Balance != 0 {
		t.Fatalf("unexpected account: %+v", acct)
	}

	if err := ctrl.CreateAccount(db, addr, mint, owner); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate, got %+v", err)
	}
}

func TestMoveTokens(t *testing.T) {
	mint := ledger.NewAddress([]byte("mint"))
	otherMint := ledger.NewAddress([]byte("other mint"))
	alice := ledgertest.NewCondition()
	bob := ledgertest.NewCondition()
	auth := &ledgertest.Auth{Signer: alice}

	aliceAcct := HoldingAccountAddr(alice.Address(), mint)
	bobAcct := HoldingAccountAddr(bob.Address(), mint)
	bobOther := HoldingAccountAddr(bob.Address(), otherMint)

	newDB := func(t *testing.T) (ledger.KVStore, AccountController) {
		t.Helper()
		db := store.MemStore()
		ctrl := NewController(NewBucket())
		for _, setup := range []struct {
			addr, mint, authority ledger.Address
			balance               uint64
		}{
			{aliceAcct, mint, alice.Address(), 1000},
			{bobAcct, mint, bob.Address(), 0},
			{bobOther, otherMint, bob.Address(), 0},
		} {
			if err := ctrl.CreateAccount(db, setup.addr, setup.mint, setup.authority); err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}
			if setup.balance > 0 {
				if err := ctrl.IssueTokens(db, setup.addr, setup.balance); err != nil {
					t.Fatalf("unexpected error: %+v", err)
				}
			}
		}
		return db, ctrl
	}

	cases := map[string]struct {
		src, dest ledger.Address
		amount    uint64
		wantErr   *errors.Error
	}{
		"happy path": {
			src:    aliceAcct,
			dest:   bobAcct,
			amount: 400,
		},
		"zero amount": {
			src:     aliceAcct,
			dest:    bobAcct,
			amount:  0,
			wantErr: errors.ErrAmount,
		},
		"same account": {
			src:     aliceAcct,
			dest:    aliceAcct,
			amount:  10,
			wantErr: errors.ErrState,
		},
		"missing destination": {
			src:     aliceAcct,
			dest:    HoldingAccountAddr(ledgertest.NewCondition().Address(), mint),
			amount:  10,
			wantErr: errors.ErrNotFound,
		},
		"mint mismatch": {
			src:     aliceAcct,
			dest:    bobOther,
			amount:  10,
			wantErr: errors.ErrState,
		},
		"insufficient balance": {
			src:     aliceAcct,
			dest:    bobAcct,
			amount:  5000,
			wantErr: errors.ErrAmount,
		},
		"sender not authorized": {
			src:     bobAcct,
			dest:    aliceAcct,
			amount:  10,
			wantErr: errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, ctrl := newDB(t)
			err := ctrl.MoveTokens(context.Background(), db, tc.src, tc.dest, tc.amount, x.SignedBy(auth))
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %v, got %+v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}
			src, _ := ctrl.Account(db, tc.src)
			dest, _ := ctrl.Account(db, tc.dest)
			if src.Balance != 1000-tc.amount || dest.Balance != tc.amount {
				t.Fatalf("unexpected balances: %d, %d", src.Balance, dest.Balance)
			}
		})
	}
}

func TestCloseAccount(t *testing.T) {
	mint := ledger.NewAddress([]byte("mint"))
	alice := ledgertest.NewCondition()
	auth := &ledgertest.Auth{Signer: alice}
	addr := HoldingAccountAddr(alice.Address(), mint)

	db := store.MemStore()
	ctrl := NewController(NewBucket())
	if err := ctrl.CreateAccount(db, addr, mint, alice.Address()); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := ctrl.IssueTokens(db, addr, 10); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	// A non empty account cannot be closed.
	err := ctrl.CloseAccount(context.Background(), db, addr, x.SignedBy(auth))
	if !errors.ErrState.Is(err) {
		t.Fatalf("want state error, got %+v", err)
	}

	// Drain it first, then the close is accepted.
	other := HoldingAccountAddr(ledgertest.NewCondition().Address(), mint)
	if err := ctrl.CreateAccount(db, other, mint, alice.Address()); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := ctrl.MoveTokens(context.Background(), db, addr, other, 10, x.SignedBy(auth)); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := ctrl.CloseAccount(context.Background(), db, addr, x.SignedBy(auth)); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	acct, err := ctrl.Account(db, addr)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if acct != nil {
		t.Fatal("closed account must be removed")
	}

	err = ctrl.CloseAccount(context.Background(), db, addr, x.SignedBy(auth))
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestHoldingAccountAddr(t *testing.T) {
	mintA := ledger.NewAddress([]byte("mint a"))
	mintB := ledger.NewAddress([]byte("mint b"))
	owner := ledgertest.NewCondition().Address()

	if !HoldingAccountAddr(owner, mintA).Equals(HoldingAccountAddr(owner, mintA)) {
		t.Fatal("holding address must be deterministic")
	}
	if HoldingAccountAddr(owner, mintA).Equals(HoldingAccountAddr(owner, mintB)) {
		t.Fatal("different mints must have different holding addresses")
	}
}
