package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// AssetHandler handles HTTP requests for holdings inside a portfolio.
type AssetHandler struct {
	assetService *service.AssetService
}

// NewAssetHandler creates a new AssetHandler with the provided service dependency.
func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// AssetMutationResponse returns the changed asset together with the portfolio
// aggregate it was folded into.
type AssetMutationResponse struct {
	Portfolio model.Portfolio   `json:"portfolio"`
	Asset     model.CryptoAsset `json:"asset"`
}

// Add handles POST requests that add a holding.
//
// Endpoint: POST /api/portfolio/{address}/asset
// Request Body: AddAssetRequest
// Response: 201 Created with AssetMutationResponse
// Error: 400 Bad Request if validation fails
// Error: 403 Forbidden if the caller is not the owner
// Error: 422 Unprocessable Entity if the value overflows
func (h *AssetHandler) Add(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.AddAssetRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	in, err := validation.ValidateAddAsset(req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAssets)
		return
	}

	p, a, err := h.assetService.AddAsset(r.Context(), caller, ref, in)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAssets)
		return
	}

	response.RespondJSON(w, http.StatusCreated, AssetMutationResponse{Portfolio: p, Asset: a})
}

// Update handles PUT requests that replace a holding's amount and/or price.
//
// Endpoint: PUT /api/portfolio/{address}/asset/{uuid}
// Request Body: UpdateAssetRequest
// Response: 200 OK with AssetMutationResponse
// Error: 404 Not Found if the asset does not belong to the portfolio
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}
	assetID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateAssetRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	in, err := validation.ValidateUpdateAsset(req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAssets)
		return
	}

	p, a, err := h.assetService.UpdateAsset(r.Context(), caller, ref, assetID, in)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAssets)
		return
	}

	response.RespondJSON(w, http.StatusOK, AssetMutationResponse{Portfolio: p, Asset: a})
}

// List returns every holding of the portfolio in insertion order.
//
// Endpoint: GET /api/portfolio/{address}/asset
// Response: 200 OK with array of model.CryptoAsset
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	assets, err := h.assetService.ListAssets(r.Context(), caller, ref)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAssets)
		return
	}
	if assets == nil {
		assets = []model.CryptoAsset{}
	}

	response.RespondJSON(w, http.StatusOK, assets)
}
