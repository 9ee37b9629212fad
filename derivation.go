package ledger

import (
	"crypto/sha256"
	"fmt"

	"github.com/helios-one/ledger/errors"
)

// Custody accounts are not backed by a key pair. Their addresses are derived
// from a program identity plus seed material, and the derivation includes a
// discriminant byte (the "bump") chosen so that the resulting digest carries
// the derived-address marker. Anyone can recompute the address, but only a
// holder of the full derivation (program, seeds, bump) can authorize acting
// as it - that proof is what DerivationProof carries.

// derivedMarker is checked against the first digest byte beyond the address
// truncation. Roughly half of the candidate digests qualify, so the bump
// search terminates after a couple of attempts.
const derivedMarker = 0x80

// Derive searches the discriminant space from high to low and returns the
// first derived address for the given program identity and seed material,
// together with the bump that produced it.
//
// The same inputs always yield the same address and bump. Exhausting all 256
// bump values is not a runtime condition; the probability is below 2^-256 and
// hitting it means the derivation scheme itself is broken, so this panics.
func Derive(program Address, namespace string, seeds ...[]byte) (Address, uint8) {
	for bump := 255; bump >= 0; bump-- {
		if addr, ok := derive(program, namespace, seeds, uint8(bump)); ok {
			return addr, uint8(bump)
		}
	}
	panic(fmt.Sprintf("derivation space exhausted for %q namespace", namespace))
}

// DeriveWithBump recomputes the derived address using an explicit bump. It
// fails if the bump does not land on a derived address.
func DeriveWithBump(program Address, namespace string, bump uint8, seeds ...[]byte) (Address, error) {
	addr, ok := derive(program, namespace, seeds, bump)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "bump %d is not a valid discriminant", bump)
	}
	return addr, nil
}

func derive(program Address, namespace string, seeds [][]byte, bump uint8) (Address, bool) {
	h := sha256.New()
	h.Write([]byte("derived/" + namespace + "/"))
	h.Write(program)
	for _, seed := range seeds {
		h.Write([]byte{byte(len(seed))})
		h.Write(seed)
	}
	h.Write([]byte{bump})
	digest := h.Sum(nil)
	if digest[AddressLength]&derivedMarker == 0 {
		return nil, false
	}
	return Address(digest[:AddressLength]), true
}

// DerivationProof is the capability to act as a derived address. Presenting a
// proof whose recomputed address matches the source of a transfer is the
// program-controlled counterpart of a user signature.
type DerivationProof struct {
	Program   Address
	Namespace string
	Seeds     [][]byte
	Bump      uint8
}

// Derives reports whether this proof recomputes to the given address. A bump
// that does not land on a derived address never matches.
func (p DerivationProof) Derives(addr Address) bool {
	got, err := DeriveWithBump(p.Program, p.Namespace, p.Bump, p.Seeds...)
	if err != nil {
		return false
	}
	return got.Equals(addr)
}

// Validate ensures the proof is structurally complete.
func (p DerivationProof) Validate() error {
	if err := p.Program.Validate(); err != nil {
		return errors.Wrap(err, "program")
	}
	if p.Namespace == "" {
		return errors.Wrap(errors.ErrEmpty, "namespace")
	}
	if len(p.Seeds) == 0 {
		return errors.Wrap(errors.ErrEmpty, "seeds")
	}
	return nil
}
