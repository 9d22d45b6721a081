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

// GoalHandler handles HTTP requests for savings goals.
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler with the provided service dependency.
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// Create handles POST requests that add a goal to the portfolio.
//
// Endpoint: POST /api/portfolio/{address}/goal
// Request Body: CreateGoalRequest
// Response: 201 Created with model.FinancialGoal
// Error: 400 Bad Request if validation fails
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateGoalRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	in, err := validation.ValidateCreateGoal(req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveGoals)
		return
	}

	g, err := h.goalService.CreateGoal(r.Context(), caller, ref, in)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveGoals)
		return
	}

	response.RespondJSON(w, http.StatusCreated, g)
}

// UpdateProgress adds to a goal's current amount.
//
// Endpoint: PUT /api/portfolio/{address}/goal/{uuid}/progress
// Request Body: UpdateGoalProgressRequest
// Response: 200 OK with model.FinancialGoal
// Error: 404 Not Found if the goal does not belong to the portfolio
// Error: 409 Conflict if the goal is already completed
func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateGoalProgressRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	amount, err := validation.ValidateUpdateGoalProgress(req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveGoals)
		return
	}

	g, err := h.goalService.UpdateGoalProgress(r.Context(), caller, ref, goalID, amount)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveGoals)
		return
	}

	response.RespondJSON(w, http.StatusOK, g)
}

// List returns the portfolio's goals, optionally filtered by state.
//
// Endpoint: GET /api/portfolio/{address}/goal?state=in_progress|completed
// Response: 200 OK with array of model.FinancialGoal
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	state := model.GoalState(r.URL.Query().Get("state"))
	if state != "" && state != model.GoalInProgress && state != model.GoalCompleted {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", "state must be in_progress or completed")
		return
	}

	goals, err := h.goalService.ListGoals(r.Context(), caller, ref, state)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveGoals)
		return
	}
	if goals == nil {
		goals = []model.FinancialGoal{}
	}

	response.RespondJSON(w, http.StatusOK, goals)
}

// Progress returns the read-only progress projection of one goal.
//
// Endpoint: GET /api/portfolio/{address}/goal/{uuid}/progress
// Response: 200 OK with model.GoalProgress
func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	caller, ref, ok := requestScope(w, r)
	if !ok {
		return
	}

	p, err := h.goalService.GetGoalProgress(r.Context(), caller, ref, chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveGoals)
		return
	}

	response.RespondJSON(w, http.StatusOK, p)
}
