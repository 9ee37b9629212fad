/*
Package asset implements the value type describing one leg of a swap: either
an amount of the native ledger currency, or an amount of a fungible token
identified by its mint.

An asset carries no behavior beyond classification, validation and equality.
Code inspecting an asset must switch on its kind exhaustively and treat an
unknown kind as an error; there is no default variant.
*/
package asset

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
)

// Kind is the tag of the Asset union.
type Kind uint8

const (
	// Native is the base ledger currency, denominated in its smallest
	// unit.
	Native Kind = 1
	// Fungible is a token identified by a mint, denominated in the
	// token's smallest unit.
	Fungible Kind = 2
)

func (k Kind) String() string {
	switch k {
	case Native:
		return "native"
	case Fungible:
		return "fungible"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(k))
	}
}

// Asset is a tagged union. Mint is set only for the Fungible kind.
type Asset struct {
	Kind   Kind           `cbor:"1,keyasint"`
	Amount uint64         `cbor:"2,keyasint"`
	Mint   ledger.Address `cbor:"3,keyasint,omitempty"`
}

var _ ledger.Persistent = (*Asset)(nil)

// NewNative returns a native currency asset.
func NewNative(amount uint64) Asset {
	return Asset{
		Kind:   Native,
		Amount: amount,
	}
}

// NewFungible returns a token asset of the given mint.
func NewFungible(mint ledger.Address, amount uint64) Asset {
	return Asset{
		Kind:   Fungible,
		Amount: amount,
		Mint:   mint.Clone(),
	}
}

// IsNative reports whether this asset is a native currency amount.
func (a Asset) IsNative() bool {
	return a.Kind == Native
}

// SameKind reports whether both assets carry the same tag and, for fungible
// assets, the same mint.
func (a Asset) SameKind(b Asset) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == Fungible {
		return a.Mint.Equals(b.Mint)
	}
	return true
}

// Equals reports full equality of tag, payload and amount.
func (a Asset) Equals(b Asset) bool {
	return a.SameKind(b) && a.Amount == b.Amount
}

// Validate ensures the asset can be used in an offer. Zero amounts are
// rejected; an offer over nothing has no meaningful custody or fulfillment.
func (a Asset) Validate() error {
	switch a.Kind {
	case Native:
		if len(a.Mint) != 0 {
			return errors.Wrap(errors.ErrState, "native asset cannot carry a mint")
		}
	case Fungible:
		if err := a.Mint.Validate(); err != nil {
			return errors.Wrap(err, "mint")
		}
	default:
		return errors.Wrapf(errors.ErrType, "asset kind %d", a.Kind)
	}
	if a.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	return nil
}

func (a Asset) String() string {
	switch a.Kind {
	case Native:
		return fmt.Sprintf("%d native", a.Amount)
	case Fungible:
		return fmt.Sprintf("%d of %s", a.Amount, a.Mint)
	default:
		return fmt.Sprintf("invalid asset (kind %d)", a.Kind)
	}
}

func (a *Asset) Marshal() ([]byte, error) {
	return cbor.Marshal(a)
}

func (a *Asset) Unmarshal(raw []byte) error {
	return cbor.Unmarshal(raw, a)
}
