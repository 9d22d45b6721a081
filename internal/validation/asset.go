package validation

import (
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
)

// ValidateAddAsset validates an asset creation request and converts it to ledger input.
//
// Required fields:
//   - symbol: 1..32 bytes, no markup
//   - amount: positive decimal, at most 6 fractional digits
//   - priceUsd: positive decimal, at most 6 fractional digits
//   - network: 1..32 bytes, no markup
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateAddAsset(req request.AddAssetRequest) (ledger.AddAssetInput, error) {
	errors := make(map[string]string)

	checkText(errors, "symbol", req.Symbol, ledger.MaxSymbolLen)
	checkText(errors, "network", req.Network, ledger.MaxNetworkLen)
	amount := checkAmount(errors, "amount", req.Amount, true)
	price := checkAmount(errors, "priceUsd", req.PriceUSD, true)

	if len(errors) > 0 {
		return ledger.AddAssetInput{}, &Error{Fields: errors}
	}

	return ledger.AddAssetInput{
		Symbol:   req.Symbol,
		Amount:   amount,
		PriceUSD: price,
		Network:  req.Network,
	}, nil
}

// ValidateUpdateAsset validates an asset update request. Both fields are
// optional; zero is allowed so a position can be emptied.
func ValidateUpdateAsset(req request.UpdateAssetRequest) (ledger.UpdateAssetInput, error) {
	errors := make(map[string]string)
	var in ledger.UpdateAssetInput

	if req.Amount != nil {
		v := checkAmount(errors, "amount", *req.Amount, false)
		in.Amount = &v
	}
	if req.PriceUSD != nil {
		v := checkAmount(errors, "priceUsd", *req.PriceUSD, false)
		in.PriceUSD = &v
	}

	if len(errors) > 0 {
		return ledger.UpdateAssetInput{}, &Error{Fields: errors}
	}
	return in, nil
}
