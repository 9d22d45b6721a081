package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// maxBodyBytes bounds request bodies; the largest valid payload is well under 2 KiB.
const maxBodyBytes = 16 << 10

// parseJSON decodes the request body into T, rejecting unknown fields and
// trailing data.
func parseJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return req, errors.New("invalid request body: unexpected trailing data")
	}
	return req, nil
}

// requestScope returns the authenticated principal and the portfolio reference
// placed on the context by the auth and address middleware.
// Writes a 400 and returns ok=false when the reference is missing.
func requestScope(w http.ResponseWriter, r *http.Request) (string, model.PortfolioRef, bool) {
	ref, ok := middleware.PortfolioRef(r.Context())
	if !ok {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidAddress.Error(), "portfolio address is required")
		return "", model.PortfolioRef{}, false
	}
	return middleware.Principal(r.Context()), ref, true
}

// respondServiceError maps ledger and validation errors to HTTP statuses.
// Anything unrecognised becomes a 500 carrying the fallback message.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrInvalidAddress):
		response.RespondError(w, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		response.RespondError(w, http.StatusForbidden, apperrors.ErrUnauthorized.Error(), "caller does not own this portfolio")
	case errors.Is(err, apperrors.ErrPortfolioNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrAssetNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrAssetNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrGoalNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrGoalNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrAlreadyExists):
		response.RespondError(w, http.StatusConflict, apperrors.ErrAlreadyExists.Error(), err.Error())
	case errors.Is(err, apperrors.ErrGoalAlreadyCompleted):
		response.RespondError(w, http.StatusConflict, apperrors.ErrGoalAlreadyCompleted.Error(), err.Error())
	case errors.Is(err, apperrors.ErrOverflow):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrOverflow.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
