package x_test

import (
	"context"
	"testing"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/ledgertest"
	"github.com/helios-one/ledger/x"
)

func TestChainAuth(t *testing.T) {
	a := ledgertest.NewCondition()
	b := ledgertest.NewCondition()
	auth := x.ChainAuth(
		&ledgertest.Auth{Signer: a},
		&ledgertest.Auth{Signer: b},
	)

	ctx := context.Background()
	if got := len(auth.GetConditions(ctx)); got != 2 {
		t.Fatalf("unexpected condition count: %d", got)
	}
	if !auth.HasAddress(ctx, a.Address()) || !auth.HasAddress(ctx, b.Address()) {
		t.Fatal("chained authenticators must report all signers")
	}
	if auth.HasAddress(ctx, ledgertest.NewCondition().Address()) {
		t.Fatal("unknown address must not be reported")
	}
	if !x.HasAllAddresses(ctx, auth, []ledger.Address{a.Address(), b.Address()}) {
		t.Fatal("all signers must be found")
	}
}

func TestMainSigner(t *testing.T) {
	ctx := context.Background()
	if got := x.MainSigner(ctx, &ledgertest.Auth{}); got != nil {
		t.Fatalf("no signers must give nil, got %v", got)
	}
	signer := ledgertest.NewCondition()
	if got := x.MainSigner(ctx, &ledgertest.Auth{Signer: signer}); !got.Equals(signer) {
		t.Fatalf("unexpected main signer: %v", got)
	}
}

func TestSignerAuthority(t *testing.T) {
	signer := ledgertest.NewCondition()
	authority := x.SignedBy(&ledgertest.Auth{Signer: signer})

	ctx := context.Background()
	if err := authority.Allows(ctx, signer.Address()); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	err := authority.Allows(ctx, ledgertest.NewCondition().Address())
	if !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}
}

func TestDerivedAuthority(t *testing.T) {
	program := ledger.NewAddress([]byte("program"))
	owner := ledger.NewAddress([]byte("owner"))
	addr, bump := ledger.Derive(program, "escrow", owner)

	proof := ledger.DerivationProof{
		Program:   program,
		Namespace: "escrow",
		Seeds:     [][]byte{owner},
		Bump:      bump,
	}
	ctx := context.Background()
	if err := x.DerivedFrom(proof).Allows(ctx, addr); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err := x.DerivedFrom(proof).Allows(ctx, owner); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}

	incomplete := proof
	incomplete.Namespace = ""
	if err := x.DerivedFrom(incomplete).Allows(ctx, addr); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want empty error, got %+v", err)
	}
}
