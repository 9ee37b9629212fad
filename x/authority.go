package x

import (
	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
)

// Authority is the permission to move value out of a source account. There
// are exactly two ways to hold it: a transaction signature over the source
// address, or a derivation proof that recomputes to the source address. The
// two are kept as separate implementations so each path can be exercised
// independently.
type Authority interface {
	// Allows returns nil if this authority may act as the given address,
	// otherwise an ErrUnauthorized.
	Allows(ctx ledger.Context, addr ledger.Address) error
}

// SignerAuthority authorizes any address signed for in the context.
type SignerAuthority struct {
	auth Authenticator
}

var _ Authority = SignerAuthority{}

// SignedBy wraps an authenticator into an authority.
func SignedBy(auth Authenticator) SignerAuthority {
	return SignerAuthority{auth: auth}
}

func (s SignerAuthority) Allows(ctx ledger.Context, addr ledger.Address) error {
	if !s.auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", addr)
	}
	return nil
}

// DerivedAuthority authorizes exactly the address its derivation proof
// recomputes to. It carries no signature; control follows from knowing the
// full derivation, which only the owning program does.
type DerivedAuthority struct {
	proof ledger.DerivationProof
}

var _ Authority = DerivedAuthority{}

// DerivedFrom wraps a derivation proof into an authority.
func DerivedFrom(proof ledger.DerivationProof) DerivedAuthority {
	return DerivedAuthority{proof: proof}
}

func (d DerivedAuthority) Allows(ctx ledger.Context, addr ledger.Address) error {
	if err := d.proof.Validate(); err != nil {
		return errors.Wrap(err, "derivation proof")
	}
	if !d.proof.Derives(addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "proof does not derive %s", addr)
	}
	return nil
}
