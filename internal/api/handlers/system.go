package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	// Check database health
	if err := h.systemService.CheckHealth(); err != nil {
		resp := HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
		response.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	// System is healthy
	resp := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// VersionInfoResponse represents the version check response containing application
// and database version information and migration status.
type VersionInfoResponse struct {
	AppVersion       string  `json:"app_version"`
	DbVersion        string  `json:"db_version"`
	MigrationNeeded  bool    `json:"migration_needed"`
	MigrationMessage *string `json:"migration_message"`
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfoResponse
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	info, err := h.systemService.CheckVersion(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to get version information", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, VersionInfoResponse{
		AppVersion:       info.AppVersion,
		DbVersion:        info.DbVersion,
		MigrationNeeded:  info.MigrationNeeded,
		MigrationMessage: info.MigrationMessage,
	})
}
