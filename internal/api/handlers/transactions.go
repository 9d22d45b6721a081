package handlers

import (
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// TransactionHandler handles HTTP requests for the audit trail.
// It parses requests and delegates to the TransactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// TransactionResponse renders a record with its signed amount as a decimal string.
type TransactionResponse struct {
	ID               string    `json:"id"`
	PortfolioAddress string    `json:"portfolioAddress"`
	TransactionID    string    `json:"transactionId"`
	Amount           string    `json:"amount"`
	Type             string    `json:"type"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	Timestamp        time.Time `json:"timestamp"`
}

func toTransactionResponse(t model.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID,
		PortfolioAddress: t.PortfolioAddress.String(),
		TransactionID:    t.TransactionID,
		Amount:           fixedpoint.FormatSigned(t.Amount),
		Type:             t.Type,
		Category:         t.Category,
		Description:      t.Description,
		Timestamp:        t.Timestamp,
	}
}

// Record handles POST requests that append an audit record.
//
// Endpoint: POST /api/portfolio/{address}/transaction
// Request Body: RecordTransactionRequest
// Response: 201 Created with TransactionResponse
// Error: 400 Bad Request if validation fails
// Error: 403 Forbidden if the caller is not the owner
func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.RecordTransactionRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	in, err := validation.ValidateRecordTransaction(req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	rec, err := h.transactionService.RecordTransaction(r.Context(), caller, ref, in)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusCreated, toTransactionResponse(rec))
}

// List returns the portfolio's records oldest first.
//
// Endpoint: GET /api/portfolio/{address}/transaction
// Query Parameters: type, category, transactionId, limit, offset
// Response: 200 OK with array of TransactionResponse
// Error: 400 Bad Request if limit or offset is malformed
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter, err := request.ParseTransactionFilters(q.Get("type"), q.Get("category"), q.Get("transactionId"), q.Get("limit"), q.Get("offset"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	records, err := h.transactionService.ListTransactions(r.Context(), caller, ref, filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusOK, lo.Map(records, func(t model.TransactionRecord, _ int) TransactionResponse {
		return toTransactionResponse(t)
	}))
}
