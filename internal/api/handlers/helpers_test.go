package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

// scopedRequest builds a request as it looks after the auth and address
// middleware have run.
func scopedRequest(method, path string, body any, caller string, ref model.PortfolioRef, params map[string]string) *http.Request {
	var req *http.Request
	if body == nil {
		req = testutil.NewRequestWithURLParams(method, path, params)
	} else {
		req = testutil.NewJSONRequestWithURLParams(method, path, body, params)
	}
	ctx := middleware.WithPrincipal(req.Context(), caller)
	ctx = middleware.WithPortfolioRef(ctx, ref)
	return req.WithContext(ctx)
}

// ledgerFixture bundles a database, services and one portfolio owned by "alice".
type ledgerFixture struct {
	db        *sql.DB
	svc       *testutil.Services
	portfolio model.Portfolio
}

func newLedgerFixture(t *testing.T) ledgerFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return ledgerFixture{
		db:        db,
		svc:       testutil.NewTestServices(t, db),
		portfolio: testutil.CreatePortfolio(t, db, "alice"),
	}
}
