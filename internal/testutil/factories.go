package testutil

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// FixedTime is the instant returned by the test clock unless a test advances it.
var FixedTime = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

// Deriver is the address deriver used by builders and test services.
var Deriver = address.NewBlake3Deriver(address.DefaultTag)

var ownerSeq atomic.Int64

// MakeOwner returns a unique principal for a test.
func MakeOwner() string {
	return fmt.Sprintf("owner-%d", ownerSeq.Add(1))
}

// MakeID returns a new random record ID.
func MakeID() string {
	return uuid.New().String()
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
// Totals are written as given; nothing checks them against the holdings.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithOwner("alice").
//	    WithDisambiguator(2).
//	    Build(t, db)
type PortfolioBuilder struct {
	Owner         string
	Disambiguator address.Disambiguator
	TotalAssets   uint32
	TotalValueUSD fixedpoint.Amount
	CreatedAt     time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		Owner:     MakeOwner(),
		CreatedAt: FixedTime,
	}
}

// WithOwner sets a custom owner.
func (b *PortfolioBuilder) WithOwner(owner string) *PortfolioBuilder {
	b.Owner = owner
	return b
}

// WithDisambiguator sets a custom disambiguator.
func (b *PortfolioBuilder) WithDisambiguator(d address.Disambiguator) *PortfolioBuilder {
	b.Disambiguator = d
	return b
}

// WithTotals sets the stored aggregate fields.
func (b *PortfolioBuilder) WithTotals(count uint32, value fixedpoint.Amount) *PortfolioBuilder {
	b.TotalAssets = count
	b.TotalValueUSD = value
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	p := model.Portfolio{
		Address:       Deriver.Derive(b.Owner, b.Disambiguator),
		Owner:         b.Owner,
		Disambiguator: b.Disambiguator,
		TotalAssets:   b.TotalAssets,
		TotalValueUSD: b.TotalValueUSD,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.CreatedAt,
	}

	query := `
		INSERT INTO portfolio (address, owner, disambiguator, total_assets, total_value_usd, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, p.Address, p.Owner, p.Disambiguator, p.TotalAssets, p.TotalValueUSD, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}
	return p
}

// CreatePortfolio creates an empty portfolio for owner with disambiguator 0.
func CreatePortfolio(t *testing.T, db *sql.DB, owner string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithOwner(owner).Build(t, db)
}

// AssetBuilder inserts a holding row directly, without touching the portfolio
// total. Use it to stage drift; use AssetService to keep totals in step.
type AssetBuilder struct {
	ID       string
	Address  address.Address
	Symbol   string
	Amount   fixedpoint.Amount
	PriceUSD fixedpoint.Amount
	Network  string
}

// NewAsset creates an AssetBuilder for 1 BTC at 50,000 USD in p.
func NewAsset(p model.Portfolio) *AssetBuilder {
	return &AssetBuilder{
		ID:       MakeID(),
		Address:  p.Address,
		Symbol:   "BTC",
		Amount:   1_000_000,
		PriceUSD: 50_000_000_000,
		Network:  "bitcoin",
	}
}

// WithAmountAndPrice sets the scaled amount and price.
func (b *AssetBuilder) WithAmountAndPrice(amount, price fixedpoint.Amount) *AssetBuilder {
	b.Amount = amount
	b.PriceUSD = price
	return b
}

// Build creates the asset in the database and returns it.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.CryptoAsset {
	t.Helper()

	a := model.CryptoAsset{
		ID:               b.ID,
		PortfolioAddress: b.Address,
		Symbol:           b.Symbol,
		Amount:           b.Amount,
		PriceUSD:         b.PriceUSD,
		Network:          b.Network,
		LastUpdated:      FixedTime,
	}

	query := `
		INSERT INTO crypto_asset (id, portfolio_address, symbol, amount, price_usd, network, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, a.ID, a.PortfolioAddress, a.Symbol, a.Amount, a.PriceUSD, a.Network, a.LastUpdated)
	if err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}
	return a
}

// GoalBuilder provides a fluent interface for creating test goals.
type GoalBuilder struct {
	ID            string
	Address       address.Address
	Name          string
	TargetAmount  fixedpoint.Amount
	CurrentAmount fixedpoint.Amount
	TargetDate    time.Time
	Category      string
	IsCompleted   bool
}

// NewGoal creates a GoalBuilder for a 1.000000 target due 30 days after FixedTime.
func NewGoal(p model.Portfolio) *GoalBuilder {
	return &GoalBuilder{
		ID:           MakeID(),
		Address:      p.Address,
		Name:         "Emergency fund",
		TargetAmount: 1_000_000,
		TargetDate:   FixedTime.AddDate(0, 0, 30),
		Category:     "savings",
	}
}

// WithTarget sets the target amount.
func (b *GoalBuilder) WithTarget(v fixedpoint.Amount) *GoalBuilder {
	b.TargetAmount = v
	return b
}

// Completed marks the goal as completed at its target.
func (b *GoalBuilder) Completed() *GoalBuilder {
	b.CurrentAmount = b.TargetAmount
	b.IsCompleted = true
	return b
}

// Build creates the goal in the database and returns it.
func (b *GoalBuilder) Build(t *testing.T, db *sql.DB) model.FinancialGoal {
	t.Helper()

	g := model.FinancialGoal{
		ID:               b.ID,
		PortfolioAddress: b.Address,
		Name:             b.Name,
		TargetAmount:     b.TargetAmount,
		CurrentAmount:    b.CurrentAmount,
		TargetDate:       b.TargetDate,
		Category:         b.Category,
		IsCompleted:      b.IsCompleted,
		CreatedAt:        FixedTime,
		UpdatedAt:        FixedTime,
	}

	query := `
		INSERT INTO financial_goal (id, portfolio_address, name, target_amount, current_amount, target_date, category, is_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, g.ID, g.PortfolioAddress, g.Name, g.TargetAmount, g.CurrentAmount,
		g.TargetDate, g.Category, g.IsCompleted, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test goal: %v", err)
	}
	return g
}
