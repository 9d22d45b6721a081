package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func btcInput() ledger.AddAssetInput {
	return ledger.AddAssetInput{Symbol: "BTC", Amount: 1_000_000, PriceUSD: 50_000_000_000, Network: "bitcoin"}
}

func strPtr(s string) *string { return &s }

func TestAssetHandler_Add(t *testing.T) {
	t.Run("adds a holding and returns the new aggregate", func(t *testing.T) {
		f := newLedgerFixture(t)
		h := NewAssetHandler(f.svc.Assets)
		body := request.AddAssetRequest{Symbol: "ETH", Amount: "2.5", PriceUSD: "3000", Network: "ethereum"}

		w := httptest.NewRecorder()
		h.Add(w, scopedRequest(http.MethodPost, "/asset", body, "alice", f.portfolio.Ref(), nil))

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.DecodeJSON[AssetMutationResponse](t, w)
		if resp.Portfolio.TotalValueUSD != 7_500_000_000 || resp.Portfolio.TotalAssets != 1 {
			t.Errorf("Unexpected aggregate %+v", resp.Portfolio)
		}
		if resp.Asset.Symbol != "ETH" || resp.Asset.PortfolioAddress != f.portfolio.Address {
			t.Errorf("Unexpected asset %+v", resp.Asset)
		}
		testutil.AssertRowCount(t, f.db, "crypto_asset", 1)
	})

	t.Run("validation failure writes nothing", func(t *testing.T) {
		f := newLedgerFixture(t)
		h := NewAssetHandler(f.svc.Assets)
		body := request.AddAssetRequest{Symbol: "<b>ETH</b>", Amount: "0", PriceUSD: "3000", Network: "ethereum"}

		w := httptest.NewRecorder()
		h.Add(w, scopedRequest(http.MethodPost, "/asset", body, "alice", f.portfolio.Ref(), nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, f.db, "crypto_asset", 0)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newLedgerFixture(t)
		h := NewAssetHandler(f.svc.Assets)
		body := request.AddAssetRequest{Symbol: "ETH", Amount: "1", PriceUSD: "1", Network: "ethereum"}

		w := httptest.NewRecorder()
		h.Add(w, scopedRequest(http.MethodPost, "/asset", body, "mallory", f.portfolio.Ref(), nil))

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("value overflow is unprocessable", func(t *testing.T) {
		f := newLedgerFixture(t)
		h := NewAssetHandler(f.svc.Assets)
		body := request.AddAssetRequest{Symbol: "BIG", Amount: "18000000000000", PriceUSD: "18000000000000", Network: "x"}

		w := httptest.NewRecorder()
		h.Add(w, scopedRequest(http.MethodPost, "/asset", body, "alice", f.portfolio.Ref(), nil))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestAssetHandler_Update(t *testing.T) {
	t.Run("replaces the price and adjusts the total", func(t *testing.T) {
		f := newLedgerFixture(t)
		h := NewAssetHandler(f.svc.Assets)
		_, asset, err := f.svc.Assets.AddAsset(t.Context(), "alice", f.portfolio.Ref(), btcInput())
		if err != nil {
			t.Fatalf("AddAsset() returned unexpected error: %v", err)
		}

		w := httptest.NewRecorder()
		req := scopedRequest(http.MethodPut, "/asset/"+asset.ID, request.UpdateAssetRequest{PriceUSD: strPtr("60000")},
			"alice", f.portfolio.Ref(), map[string]string{"uuid": asset.ID})
		h.Update(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.DecodeJSON[AssetMutationResponse](t, w)
		if resp.Portfolio.TotalValueUSD != 60_000_000_000 {
			t.Errorf("Expected total 60000, got %s", resp.Portfolio.TotalValueUSD)
		}
		if resp.Asset.Amount != 1_000_000 {
			t.Errorf("Amount should be unchanged, got %s", resp.Asset.Amount)
		}
	})

	t.Run("asset from another portfolio is not found", func(t *testing.T) {
		f := newLedgerFixture(t)
		h := NewAssetHandler(f.svc.Assets)
		other := testutil.CreatePortfolio(t, f.db, "bob")
		foreign := testutil.NewAsset(other).Build(t, f.db)

		w := httptest.NewRecorder()
		req := scopedRequest(http.MethodPut, "/asset/"+foreign.ID, request.UpdateAssetRequest{Amount: strPtr("2")},
			"alice", f.portfolio.Ref(), map[string]string{"uuid": foreign.ID})
		h.Update(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestAssetHandler_List(t *testing.T) {
	f := newLedgerFixture(t)
	h := NewAssetHandler(f.svc.Assets)

	t.Run("empty portfolio returns an empty array", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.List(w, scopedRequest(http.MethodGet, "/asset", nil, "alice", f.portfolio.Ref(), nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if got := testutil.DecodeJSON[[]model.CryptoAsset](t, w); got == nil || len(got) != 0 {
			t.Errorf("Expected empty array, got %v", got)
		}
	})

	t.Run("lists holdings in insertion order", func(t *testing.T) {
		testutil.NewAsset(f.portfolio).Build(t, f.db)
		second := testutil.NewAsset(f.portfolio).WithAmountAndPrice(2_000_000, 3_000_000_000).Build(t, f.db)

		w := httptest.NewRecorder()
		h.List(w, scopedRequest(http.MethodGet, "/asset", nil, "alice", f.portfolio.Ref(), nil))
		got := testutil.DecodeJSON[[]model.CryptoAsset](t, w)
		if len(got) != 2 || got[1].ID != second.ID || got[1].Amount != 2_000_000 {
			t.Errorf("Unexpected assets %+v", got)
		}
	})
}
