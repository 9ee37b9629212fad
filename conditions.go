package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/helios-one/ledger/errors"
	"github.com/mr-tron/base58"
)

var (
	// AddressLength is the length of all addresses. It must not change
	// during the lifetime of a store, as every persisted key depends on it.
	AddressLength = 20

	// it must have (?s) flags, otherwise it errors when the last section
	// contains 0x20 (newline)
	condFormat = regexp.MustCompile(`(?s)^([a-z0-9_\-]{3,10})/([a-z0-9_\-]{3,10})/(.+)$`)
)

// Condition is a specially formatted byte array describing who can authorize
// an action. It is of the format:
//
//	sprintf("%s/%s/%s", extension, type, data)
//
// A condition has no private key. The only way to act as its address is to
// present the condition bytes themselves, which is why conditions are what
// give the swap system exclusive control over custody accounts.
type Condition []byte

func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse extracts the sections from the condition bytes and verifies it is
// properly formatted.
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := condFormat.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	// chunks is [all, match1, match2, match3]
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address converts a condition into its address.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals checks if two conditions are the same.
func (a Condition) Equals(b Condition) bool {
	return bytes.Equal(a, b)
}

// String keeps the extension and type in ascii and base58-encodes the
// binary data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("invalid condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%s", ext, typ, base58.Encode(data))
}

// Validate returns an error if the condition is not the proper format.
func (c Condition) Validate() error {
	if !condFormat.Match(c) {
		return errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return nil
}

// Address represents a collision-free, one-way digest of a condition or a
// public key. It is always of size AddressLength.
type Address []byte

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns an independent copy of the address.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address{}, a...)
}

// String returns the base58 text form of the address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return base58.Encode(a)
}

// MarshalJSON provides the base58 representation for JSON, to override the
// standard base64 []byte encoding.
func (a Address) MarshalJSON() ([]byte, error) {
	var enc string
	if a != nil {
		enc = base58.Encode(a)
	}
	return json.Marshal(enc)
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	if len(enc) == 0 {
		*a = nil
		return nil
	}
	val, err := base58.Decode(enc)
	if err != nil {
		return errors.Wrap(err, "cannot decode base58")
	}
	if err := Address(val).Validate(); err != nil {
		return err
	}
	*a = val
	return nil
}

// Validate returns an error if the address is not the valid size.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address: %X", []byte(a))
	}
	return nil
}

// ParseAddress decodes an address from its base58 text form.
func ParseAddress(enc string) (Address, error) {
	val, err := base58.Decode(enc)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode base58")
	}
	addr := Address(val)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// NewAddress hashes and truncates into the proper size.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}
