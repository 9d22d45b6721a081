package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version, the applied schema version and
// whether embedded migrations are still pending.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, err := database.Version(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}
	pending, err := database.HasPending(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(dbVersion, 10),
		MigrationNeeded: pending,
	}
	if pending {
		msg := fmt.Sprintf("schema version %d is behind this build; run ledgerctl migrate", dbVersion)
		info.MigrationMessage = &msg
	}
	return info, nil
}
