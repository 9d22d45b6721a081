// Package fixedpoint implements decimal quantities stored as integers scaled by
// 1,000,000 (six decimal places). Amount is unsigned; signed quantities such as
// transaction amounts use plain int64 with the same scale.
package fixedpoint

import (
	"database/sql/driver"
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
)

// Decimals is the number of fractional digits carried by every scaled value.
const Decimals = 6

// Scale is 10^Decimals.
const Scale = 1_000_000

// Amount is an unsigned fixed-point value with six decimal places.
type Amount uint64

// MulScaled returns floor(a * b / Scale).
// The product is computed in 128 bits so it cannot wrap; ErrOverflow is returned
// only when the final quotient does not fit in 64 bits.
func MulScaled(a, b Amount) (Amount, error) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	// bits.Div64 requires hi < divisor, which is exactly "quotient fits in 64 bits".
	if hi >= Scale {
		return 0, fmt.Errorf("%w: %d * %d / %d", apperrors.ErrOverflow, a, b, Scale)
	}
	q, _ := bits.Div64(hi, lo, Scale)
	return Amount(q), nil
}

// Add returns a + b, or ErrOverflow if the sum exceeds the Amount range.
func Add(a, b Amount) (Amount, error) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", apperrors.ErrOverflow, a, b)
	}
	return Amount(sum), nil
}

// Decimal returns the amount as a decimal number of whole units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(a)), -Decimals)
}

// String renders the amount with exactly six fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Decimals)
}

// Parse reads a non-negative decimal string such as "1.5" or "50000.000001".
// More than six fractional digits are rejected rather than rounded.
func Parse(s string) (Amount, error) {
	scaled, err := parseScaled(s)
	if err != nil {
		return 0, err
	}
	if scaled.Sign() < 0 {
		return 0, fmt.Errorf("%w: %q is negative", apperrors.ErrInvalidAmount, s)
	}
	if !scaled.IsUint64() {
		return 0, fmt.Errorf("%w: %q is out of range", apperrors.ErrInvalidInput, s)
	}
	return Amount(scaled.Uint64()), nil
}

// ParseSigned reads a signed decimal string into an int64 scaled by Scale.
func ParseSigned(s string) (int64, error) {
	scaled, err := parseScaled(s)
	if err != nil {
		return 0, err
	}
	if !scaled.IsInt64() {
		return 0, fmt.Errorf("%w: %q is out of range", apperrors.ErrInvalidInput, s)
	}
	return scaled.Int64(), nil
}

// FormatSigned renders a signed scaled value with six fractional digits.
func FormatSigned(v int64) string {
	return decimal.New(v, -Decimals).StringFixed(Decimals)
}

func parseScaled(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a decimal number", apperrors.ErrInvalidInput, s)
	}
	shifted := d.Shift(Decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q has more than %d decimal places", apperrors.ErrInvalidInput, s, Decimals)
	}
	return shifted.BigInt(), nil
}

// MarshalJSON encodes the amount as a decimal string to avoid float rounding in clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Value stores the amount as base-10 text; SQLite integers are signed 64-bit and
// cannot hold the full unsigned range.
func (a Amount) Value() (driver.Value, error) {
	return strconv.FormatUint(uint64(a), 10), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return a.scanText(v)
	case []byte:
		return a.scanText(string(v))
	case int64:
		if v < 0 {
			return fmt.Errorf("fixedpoint: negative stored amount %d", v)
		}
		*a = Amount(v)
		return nil
	case nil:
		*a = 0
		return nil
	default:
		return fmt.Errorf("fixedpoint: cannot scan %T into Amount", src)
	}
}

func (a *Amount) scanText(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("fixedpoint: invalid stored amount %q: %w", s, err)
	}
	*a = Amount(n)
	return nil
}

// Max is the largest representable amount.
const Max = Amount(math.MaxUint64)
