package swap

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/asset"
	"github.com/helios-one/ledger/errors"
)

// Routing paths for the swap messages.
const (
	pathInitiateNativeSwapMsg = "swap/initiate_native"
	pathInitiateTokenSwapMsg  = "swap/initiate_token"
	pathCancelSwapMsg         = "swap/cancel"
	pathFulfillSwapMsg        = "swap/fulfill"
)

var (
	_ ledger.Msg = (*InitiateNativeSwapMsg)(nil)
	_ ledger.Msg = (*InitiateTokenSwapMsg)(nil)
	_ ledger.Msg = (*CancelSwapMsg)(nil)
	_ ledger.Msg = (*FulfillSwapMsg)(nil)
)

// InitiateNativeSwapMsg opens a swap offering native currency. The maker is
// the main signer of the transaction; the offered amount moves from their
// wallet into custody.
type InitiateNativeSwapMsg struct {
	// Offered is the amount of native currency deposited.
	Offered uint64 `cbor:"1,keyasint"`
	// Wanted is the asset asked in return.
	Wanted asset.Asset `cbor:"2,keyasint"`
}

func (InitiateNativeSwapMsg) Path() string {
	return pathInitiateNativeSwapMsg
}

func (m *InitiateNativeSwapMsg) Validate() error {
	if m.Offered == 0 {
		return errors.Wrap(errors.ErrAmount, "offered")
	}
	if err := m.Wanted.Validate(); err != nil {
		return errors.Wrap(err, "wanted")
	}
	return nil
}

func (m *InitiateNativeSwapMsg) Marshal() ([]byte, error) {
	return cbor.Marshal(m)
}

func (m *InitiateNativeSwapMsg) Unmarshal(raw []byte) error {
	return cbor.Unmarshal(raw, m)
}

// InitiateTokenSwapMsg opens a swap offering fungible tokens. The offered
// amount moves from the maker's holding account for the mint into a custody
// sub-account created for this offer.
type InitiateTokenSwapMsg struct {
	// Mint identifies the offered token.
	Mint ledger.Address `cbor:"1,keyasint"`
	// Offered is the token amount deposited.
	Offered uint64 `cbor:"2,keyasint"`
	// Wanted is the asset asked in return.
	Wanted asset.Asset `cbor:"3,keyasint"`
}

func (InitiateTokenSwapMsg) Path() string {
	return pathInitiateTokenSwapMsg
}

func (m *InitiateTokenSwapMsg) Validate() error {
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if m.Offered == 0 {
		return errors.Wrap(errors.ErrAmount, "offered")
	}
	if err := m.Wanted.Validate(); err != nil {
		return errors.Wrap(err, "wanted")
	}
	return nil
}

func (m *InitiateTokenSwapMsg) Marshal() ([]byte, error) {
	return cbor.Marshal(m)
}

func (m *InitiateTokenSwapMsg) Unmarshal(raw []byte) error {
	return cbor.Unmarshal(raw, m)
}

// CancelSwapMsg closes the signer's open swap and returns the deposit. It
// carries no payload; the record is addressed by the signer.
type CancelSwapMsg struct {
}

func (CancelSwapMsg) Path() string {
	return pathCancelSwapMsg
}

func (m *CancelSwapMsg) Validate() error {
	return nil
}

func (m *CancelSwapMsg) Marshal() ([]byte, error) {
	return cbor.Marshal(m)
}

func (m *CancelSwapMsg) Unmarshal(raw []byte) error {
	return cbor.Unmarshal(raw, m)
}

// FulfillSwapMsg settles the named owner's open swap. The signer delivers the
// wanted asset to the owner and receives the offered deposit in exchange.
type FulfillSwapMsg struct {
	// Owner identifies the swap to fulfill.
	Owner ledger.Address `cbor:"1,keyasint"`
}

func (FulfillSwapMsg) Path() string {
	return pathFulfillSwapMsg
}

func (m *FulfillSwapMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

func (m *FulfillSwapMsg) Marshal() ([]byte, error) {
	return cbor.Marshal(m)
}

func (m *FulfillSwapMsg) Unmarshal(raw []byte) error {
	return cbor.Unmarshal(raw, m)
}
