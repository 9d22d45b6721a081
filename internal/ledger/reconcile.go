package ledger

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// Valuate computes the value of every holding that references p.
func Valuate(p model.Portfolio, assets []model.CryptoAsset) ([]model.AssetValuation, error) {
	owned := lo.Filter(assets, func(a model.CryptoAsset, _ int) bool {
		return a.PortfolioAddress == p.Address
	})
	holdings := make([]model.AssetValuation, 0, len(owned))
	for _, a := range owned {
		v, err := a.Value()
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", a.ID, err)
		}
		holdings = append(holdings, model.AssetValuation{Asset: a, Value: v})
	}
	return holdings, nil
}

// Reconcile recomputes the portfolio total from its holdings and compares it
// with the stored aggregate.
func Reconcile(p model.Portfolio, assets []model.CryptoAsset) (model.ReconcileResult, error) {
	holdings, err := Valuate(p, assets)
	if err != nil {
		return model.ReconcileResult{}, err
	}

	var computed fixedpoint.Amount
	for _, h := range holdings {
		computed, err = fixedpoint.Add(computed, h.Value)
		if err != nil {
			return model.ReconcileResult{}, fmt.Errorf("summing holdings of %s: %w", p.Address, err)
		}
	}

	return model.ReconcileResult{
		Address:    p.Address,
		Stored:     p.TotalValueUSD,
		Computed:   computed,
		AssetCount: len(holdings),
		Consistent: computed == p.TotalValueUSD,
	}, nil
}
