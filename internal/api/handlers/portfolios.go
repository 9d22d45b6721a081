package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// PortfolioHandler handles portfolio-level HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	reconcileService *service.ReconcileService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService, reconcileService *service.ReconcileService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		reconcileService: reconcileService,
	}
}

// Initialize handles POST requests that create the caller's portfolio.
// The owner is always the authenticated principal.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest
// Response: 201 Created with model.Portfolio
// Error: 400 Bad Request if the disambiguator is out of range
// Error: 409 Conflict if a portfolio already exists at the derived address
func (h *PortfolioHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	d, err := validation.ValidateCreatePortfolio(req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	p, err := h.portfolioService.Initialize(r.Context(), middleware.Principal(r.Context()), d)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusCreated, p)
}

// Me resolves the caller's own portfolio by deriving its address.
//
// Endpoint: GET /api/portfolio/me?disambiguator=N
// Response: 200 OK with model.Portfolio
// Error: 404 Not Found if the caller has not initialized that portfolio
func (h *PortfolioHandler) Me(w http.ResponseWriter, r *http.Request) {
	d, err := middleware.ParseDisambiguator(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid disambiguator", "disambiguator must be an integer between 0 and 255")
		return
	}

	p, err := h.portfolioService.GetOwnPortfolio(r.Context(), middleware.Principal(r.Context()), d)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, p)
}

// Get returns the portfolio at the validated address.
//
// Endpoint: GET /api/portfolio/{address}?disambiguator=N
// Response: 200 OK with model.Portfolio
// Error: 400 Bad Request if the address does not derive from the owner and disambiguator
// Error: 403 Forbidden if the caller is not the owner
// Error: 404 Not Found if no portfolio lives at the address
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	p, err := h.portfolioService.GetPortfolio(r.Context(), caller, ref)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, p)
}

// Valuation returns the portfolio with the value of each holding.
//
// Endpoint: GET /api/portfolio/{address}/valuation
// Response: 200 OK with model.PortfolioValuation
func (h *PortfolioHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	v, err := h.portfolioService.Valuation(r.Context(), caller, ref)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, v)
}

// Reconcile recomputes the portfolio total from its holdings and reports
// whether it matches the stored aggregate. It never modifies state.
//
// Endpoint: GET /api/portfolio/{address}/reconcile
// Response: 200 OK with model.ReconcileResult
func (h *PortfolioHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	res, err := h.reconcileService.ReconcileOwned(r.Context(), caller, ref)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToReconcile)
		return
	}

	response.RespondJSON(w, http.StatusOK, res)
}
