package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// AddAssetInput carries the fields of a new holding.
type AddAssetInput struct {
	Symbol   string
	Amount   fixedpoint.Amount
	PriceUSD fixedpoint.Amount
	Network  string
}

// UpdateAssetInput carries optional replacements; nil fields are left unchanged.
type UpdateAssetInput struct {
	Amount   *fixedpoint.Amount
	PriceUSD *fixedpoint.Amount
}

// AddAsset creates a holding with the given id and folds its value into the portfolio.
func AddAsset(caller string, p model.Portfolio, id string, in AddAssetInput, now time.Time) (model.Portfolio, model.CryptoAsset, error) {
	if err := Authorize(caller, p); err != nil {
		return p, model.CryptoAsset{}, err
	}
	if err := checkText("symbol", in.Symbol, MaxSymbolLen); err != nil {
		return p, model.CryptoAsset{}, err
	}
	if err := checkText("network", in.Network, MaxNetworkLen); err != nil {
		return p, model.CryptoAsset{}, err
	}
	if err := checkPositive("amount", in.Amount); err != nil {
		return p, model.CryptoAsset{}, err
	}
	if err := checkPositive("priceUsd", in.PriceUSD); err != nil {
		return p, model.CryptoAsset{}, err
	}

	asset := model.CryptoAsset{
		ID:               id,
		PortfolioAddress: p.Address,
		Symbol:           in.Symbol,
		Amount:           in.Amount,
		PriceUSD:         in.PriceUSD,
		Network:          in.Network,
		LastUpdated:      now,
	}

	value, err := asset.Value()
	if err != nil {
		return p, model.CryptoAsset{}, err
	}
	total, err := fixedpoint.Add(p.TotalValueUSD, value)
	if err != nil {
		return p, model.CryptoAsset{}, fmt.Errorf("portfolio total: %w", err)
	}
	if p.TotalAssets == math.MaxUint32 {
		return p, model.CryptoAsset{}, fmt.Errorf("%w: asset count", apperrors.ErrOverflow)
	}

	next := p
	next.TotalAssets++
	next.TotalValueUSD = total
	next.UpdatedAt = now
	return next, asset, nil
}

// UpdateAsset replaces the amount and/or price of a holding and moves the
// portfolio total by the difference between its old and new value.
func UpdateAsset(caller string, p model.Portfolio, a model.CryptoAsset, in UpdateAssetInput, now time.Time) (model.Portfolio, model.CryptoAsset, error) {
	if err := Authorize(caller, p); err != nil {
		return p, a, err
	}
	if a.PortfolioAddress != p.Address {
		return p, a, fmt.Errorf("%w: asset %s does not belong to portfolio %s", apperrors.ErrAssetNotFound, a.ID, p.Address)
	}

	oldValue, err := a.Value()
	if err != nil {
		return p, a, err
	}

	updated := a
	if in.Amount != nil {
		updated.Amount = *in.Amount
	}
	if in.PriceUSD != nil {
		updated.PriceUSD = *in.PriceUSD
	}
	newValue, err := updated.Value()
	if err != nil {
		return p, a, err
	}

	total, err := ApplyValueDelta(p.TotalValueUSD, oldValue, newValue)
	if err != nil {
		return p, a, err
	}

	updated.LastUpdated = now
	next := p
	next.TotalValueUSD = total
	next.UpdatedAt = now
	return next, updated, nil
}

// ApplyValueDelta returns total - oldValue + newValue without ever wrapping.
// A negative result means the stored total was already below one of its own
// holdings and is reported as ErrAggregateCorruption.
func ApplyValueDelta(total, oldValue, newValue fixedpoint.Amount) (fixedpoint.Amount, error) {
	if total >= oldValue {
		sum, err := fixedpoint.Add(total-oldValue, newValue)
		if err != nil {
			return 0, fmt.Errorf("portfolio total: %w", err)
		}
		return sum, nil
	}
	deficit := oldValue - total
	if newValue < deficit {
		return 0, fmt.Errorf("%w: total %s minus %s plus %s is negative",
			apperrors.ErrAggregateCorruption, total, oldValue, newValue)
	}
	return newValue - deficit, nil
}
