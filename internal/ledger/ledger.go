// Package ledger holds the state transitions of the portfolio ledger.
//
// Every function here is pure: it receives copies of the records it touches and
// returns updated copies, so a failed transition leaves nothing half-applied.
// Loading, persistence and transactions live in the service layer.
package ledger

import (
	"fmt"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// Field bounds in bytes. Oversized values are rejected, never truncated.
const (
	MaxOwnerLen         = 64
	MaxSymbolLen        = 32
	MaxNetworkLen       = 32
	MaxTransactionIDLen = 64
	MaxTypeLen          = 32
	MaxCategoryLen      = 32
	MaxDescriptionLen   = 128
	MaxGoalNameLen      = 64
)

// NewPortfolio builds an empty portfolio at the address derived for owner.
func NewPortfolio(deriver address.Deriver, owner string, d address.Disambiguator, now time.Time) (model.Portfolio, error) {
	if err := checkText("owner", owner, MaxOwnerLen); err != nil {
		return model.Portfolio{}, err
	}
	return model.Portfolio{
		Address:       deriver.Derive(owner, d),
		Owner:         owner,
		Disambiguator: d,
		TotalAssets:   0,
		TotalValueUSD: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ResolveAddress checks that the loaded portfolio is the one the caller claimed
// and that the claimed address is the canonical one for its owner.
func ResolveAddress(deriver address.Deriver, ref model.PortfolioRef, p model.Portfolio) error {
	if p.Address != ref.Address {
		return fmt.Errorf("%w: loaded %s for claimed %s", apperrors.ErrInvalidAddress, p.Address, ref.Address)
	}
	return address.Validate(deriver, ref.Address, p.Owner, ref.Disambiguator)
}

// Authorize is the ownership guard run before any mutation.
func Authorize(caller string, p model.Portfolio) error {
	if caller == "" || caller != p.Owner {
		return fmt.Errorf("%w: caller is not the owner of portfolio %s", apperrors.ErrUnauthorized, p.Address)
	}
	return nil
}

// checkText bounds an identifying field, which must also be non-empty.
func checkText(field, value string, max int) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", apperrors.ErrInvalidInput, field)
	}
	return checkLen(field, value, max)
}

// checkLen bounds a free-form field. Empty is allowed.
func checkLen(field, value string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", apperrors.ErrInvalidInput, field, len(value), max)
	}
	return nil
}

func checkPositive(field string, v fixedpoint.Amount) error {
	if v == 0 {
		return fmt.Errorf("%w: %s must be positive", apperrors.ErrInvalidAmount, field)
	}
	return nil
}
