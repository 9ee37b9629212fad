package swap

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/asset"
	"github.com/helios-one/ledger/errors"
	"github.com/helios-one/ledger/orm"
)

// BucketName is where we store the open escrow records.
const BucketName = "swap"

// Escrow is one open offer, stored under the owner's address. The address is
// also the only seed of the record's custody derivation, which is why an
// owner can hold at most one open offer.
type Escrow struct {
	// Owner is the maker who deposited the offered asset.
	Owner ledger.Address `cbor:"1,keyasint"`
	// Offered is the asset held in custody until resolution.
	Offered asset.Asset `cbor:"2,keyasint"`
	// Wanted is the asset the owner asks in return.
	Wanted asset.Asset `cbor:"3,keyasint"`
	// Address is the derived custody address holding the offer.
	Address ledger.Address `cbor:"4,keyasint"`
	// CustodyBump is the discriminant byte that produced Address. It is
	// persisted at initiation and re-presented on release; recomputing it
	// could silently land on a different address if the search predicate
	// ever changed.
	CustodyBump uint8 `cbor:"5,keyasint"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	if err := e.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := e.Offered.Validate(); err != nil {
		return errors.Wrap(err, "offered")
	}
	if err := e.Wanted.Validate(); err != nil {
		return errors.Wrap(err, "wanted")
	}
	if err := e.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return nil
}

func (e *Escrow) Marshal() ([]byte, error) {
	return cbor.Marshal(e)
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return cbor.Unmarshal(raw, e)
}

// AsEscrow extracts an *Escrow value or nil from the object. Must be called
// on a bucket result that is an escrow; will panic on a bad type.
func AsEscrow(obj orm.Object) *Escrow {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Escrow)
}

// NewBucket initializes the escrow bucket.
func NewBucket() orm.Bucket {
	return orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Escrow)))
}
