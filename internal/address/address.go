// Package address derives the canonical storage address of a portfolio from its
// owner identity and a disambiguator, so a portfolio can be located without an
// external index.
package address

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
)

// Size is the length of an Address in bytes.
const Size = 32

// DefaultTag is the domain tag used for portfolio addresses.
const DefaultTag = "portfolio"

// Address is a 32-byte deterministic record key.
type Address [Size]byte

// Disambiguator lets one owner hold several portfolios at distinct addresses.
type Disambiguator uint8

// Deriver maps (owner, disambiguator) to an Address. Implementations must be pure.
type Deriver interface {
	Derive(owner string, d Disambiguator) Address
}

// Blake3Deriver derives addresses as BLAKE3(tag, owner, disambiguator).
type Blake3Deriver struct {
	tag string
}

// NewBlake3Deriver returns a Deriver bound to the given domain tag.
func NewBlake3Deriver(tag string) *Blake3Deriver {
	if tag == "" {
		tag = DefaultTag
	}
	return &Blake3Deriver{tag: tag}
}

// Derive implements Deriver. Tag and owner are length-prefixed so that no two
// distinct inputs share an encoding.
func (b *Blake3Deriver) Derive(owner string, d Disambiguator) Address {
	buf := make([]byte, 0, 8+len(b.tag)+len(owner)+1)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(b.tag)))
	buf = append(buf, b.tag...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(owner)))
	buf = append(buf, owner...)
	buf = append(buf, byte(d))
	return Address(blake3.Sum256(buf))
}

// Validate recomputes the address for (owner, d) and compares it with claimed.
func Validate(deriver Deriver, claimed Address, owner string, d Disambiguator) error {
	if deriver.Derive(owner, d) != claimed {
		return fmt.Errorf("%w: %s does not match owner and disambiguator %d", apperrors.ErrInvalidAddress, claimed, d)
	}
	return nil
}

// Parse decodes a lower- or upper-case hex address.
func Parse(s string) (Address, error) {
	var a Address
	if len(s) != hex.EncodedLen(Size) {
		return a, fmt.Errorf("%w: expected %d hex characters, got %d", apperrors.ErrInvalidAddress, hex.EncodedLen(Size), len(s))
	}
	if _, err := hex.Decode(a[:], []byte(s)); err != nil {
		return Address{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidAddress, err)
	}
	return a, nil
}

// String returns the lower-case hex encoding.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer.
func (a Address) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner.
func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	default:
		return fmt.Errorf("address: cannot scan %T into Address", src)
	}
}
