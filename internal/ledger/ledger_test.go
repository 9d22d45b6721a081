package ledger_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

const owner = "owner-u"

var (
	deriver = address.NewBlake3Deriver(address.DefaultTag)
	t0      = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
)

func newPortfolio(t *testing.T) model.Portfolio {
	t.Helper()
	p, err := ledger.NewPortfolio(deriver, owner, 1, t0)
	if err != nil {
		t.Fatalf("NewPortfolio() unexpected error: %v", err)
	}
	return p
}

func amountPtr(v fixedpoint.Amount) *fixedpoint.Amount { return &v }

func btc() ledger.AddAssetInput {
	return ledger.AddAssetInput{Symbol: "BTC", Amount: 1_000_000, PriceUSD: 50_000_000_000, Network: "bitcoin"}
}

func TestNewPortfolio(t *testing.T) {
	t.Run("scenario A: starts empty at the derived address", func(t *testing.T) {
		p := newPortfolio(t)

		if p.TotalAssets != 0 || p.TotalValueUSD != 0 {
			t.Errorf("expected empty totals, got %d assets, %s value", p.TotalAssets, p.TotalValueUSD)
		}
		if p.Address != deriver.Derive(owner, 1) {
			t.Error("address is not the derived address")
		}
		if !p.CreatedAt.Equal(t0) || !p.UpdatedAt.Equal(t0) {
			t.Errorf("expected timestamps %v, got %v / %v", t0, p.CreatedAt, p.UpdatedAt)
		}
	})

	t.Run("rejects empty and oversized owners", func(t *testing.T) {
		for _, o := range []string{"", string(make([]byte, ledger.MaxOwnerLen+1))} {
			if _, err := ledger.NewPortfolio(deriver, o, 0, t0); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("NewPortfolio(len=%d) error = %v, want ErrInvalidInput", len(o), err)
			}
		}
	})
}

func TestResolveAddress(t *testing.T) {
	p := newPortfolio(t)

	if err := ledger.ResolveAddress(deriver, p.Ref(), p); err != nil {
		t.Errorf("ResolveAddress() unexpected error: %v", err)
	}

	wrongDis := model.PortfolioRef{Address: p.Address, Disambiguator: 2}
	if err := ledger.ResolveAddress(deriver, wrongDis, p); !errors.Is(err, apperrors.ErrInvalidAddress) {
		t.Errorf("ResolveAddress() error = %v, want ErrInvalidAddress", err)
	}

	other := model.PortfolioRef{Address: deriver.Derive("someone", 1), Disambiguator: 1}
	if err := ledger.ResolveAddress(deriver, other, p); !errors.Is(err, apperrors.ErrInvalidAddress) {
		t.Errorf("ResolveAddress() error = %v, want ErrInvalidAddress", err)
	}
}

func TestAddAsset(t *testing.T) {
	t.Run("scenario B: first asset sets totals", func(t *testing.T) {
		p := newPortfolio(t)
		now := t0.Add(time.Minute)

		next, asset, err := ledger.AddAsset(owner, p, "a1", btc(), now)
		if err != nil {
			t.Fatalf("AddAsset() unexpected error: %v", err)
		}
		if next.TotalValueUSD != 50_000_000_000 {
			t.Errorf("TotalValueUSD = %d, want 50000000000", next.TotalValueUSD)
		}
		if next.TotalAssets != 1 {
			t.Errorf("TotalAssets = %d, want 1", next.TotalAssets)
		}
		if asset.PortfolioAddress != p.Address {
			t.Error("asset back-reference not set")
		}
		if !asset.LastUpdated.Equal(now) || !next.UpdatedAt.Equal(now) {
			t.Error("timestamps not set to now")
		}
		if p.TotalAssets != 0 {
			t.Error("input portfolio was mutated")
		}
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		p := newPortfolio(t)
		_, _, err := ledger.AddAsset("intruder", p, "a1", btc(), t0)
		if !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("AddAsset() error = %v, want ErrUnauthorized", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(in *ledger.AddAssetInput)
		wantErr error
	}{
		{"symbol too long", func(in *ledger.AddAssetInput) { in.Symbol = string(make([]byte, 33)) }, apperrors.ErrInvalidInput},
		{"symbol at limit", func(in *ledger.AddAssetInput) { in.Symbol = string(make([]byte, 32)) }, nil},
		{"network too long", func(in *ledger.AddAssetInput) { in.Network = string(make([]byte, 33)) }, apperrors.ErrInvalidInput},
		{"empty symbol", func(in *ledger.AddAssetInput) { in.Symbol = "" }, apperrors.ErrInvalidInput},
		{"zero amount", func(in *ledger.AddAssetInput) { in.Amount = 0 }, apperrors.ErrInvalidAmount},
		{"zero price", func(in *ledger.AddAssetInput) { in.PriceUSD = 0 }, apperrors.ErrInvalidAmount},
		{"value overflow", func(in *ledger.AddAssetInput) { in.Amount, in.PriceUSD = fixedpoint.Max, fixedpoint.Max }, apperrors.ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPortfolio(t)
			in := btc()
			tt.mutate(&in)
			next, _, err := ledger.AddAsset(owner, p, "a1", in, t0)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("AddAsset() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddAsset() error = %v, want %v", err, tt.wantErr)
			}
			if next != p {
				t.Error("failed AddAsset returned a modified portfolio")
			}
		})
	}

	t.Run("total overflow leaves portfolio unchanged", func(t *testing.T) {
		p := newPortfolio(t)
		p.TotalValueUSD = fixedpoint.Max
		next, _, err := ledger.AddAsset(owner, p, "a1", btc(), t0)
		if !errors.Is(err, apperrors.ErrOverflow) {
			t.Fatalf("AddAsset() error = %v, want ErrOverflow", err)
		}
		if next != p {
			t.Error("portfolio changed on overflow")
		}
	})
}

func TestUpdateAsset(t *testing.T) {
	setup := func(t *testing.T) (model.Portfolio, model.CryptoAsset) {
		t.Helper()
		p, a, err := ledger.AddAsset(owner, newPortfolio(t), "a1", btc(), t0)
		if err != nil {
			t.Fatalf("AddAsset() unexpected error: %v", err)
		}
		return p, a
	}

	t.Run("scenario C: doubling the amount doubles the total", func(t *testing.T) {
		p, a := setup(t)
		now := t0.Add(time.Hour)

		next, updated, err := ledger.UpdateAsset(owner, p, a, ledger.UpdateAssetInput{Amount: amountPtr(2_000_000)}, now)
		if err != nil {
			t.Fatalf("UpdateAsset() unexpected error: %v", err)
		}
		if next.TotalValueUSD != 100_000_000_000 {
			t.Errorf("TotalValueUSD = %d, want 100000000000", next.TotalValueUSD)
		}
		if updated.PriceUSD != a.PriceUSD {
			t.Error("absent price field was changed")
		}
		if next.TotalAssets != 1 {
			t.Errorf("TotalAssets changed to %d", next.TotalAssets)
		}
		if !updated.LastUpdated.Equal(now) || !next.UpdatedAt.Equal(now) {
			t.Error("timestamps not refreshed")
		}
	})

	t.Run("updates price only", func(t *testing.T) {
		p, a := setup(t)
		next, updated, err := ledger.UpdateAsset(owner, p, a, ledger.UpdateAssetInput{PriceUSD: amountPtr(25_000_000_000)}, t0)
		if err != nil {
			t.Fatalf("UpdateAsset() unexpected error: %v", err)
		}
		if next.TotalValueUSD != 25_000_000_000 || updated.Amount != a.Amount {
			t.Errorf("got total %d, amount %d", next.TotalValueUSD, updated.Amount)
		}
	})

	t.Run("back-reference mismatch is AssetNotFound", func(t *testing.T) {
		p, a := setup(t)
		a.PortfolioAddress = deriver.Derive("other", 0)
		next, same, err := ledger.UpdateAsset(owner, p, a, ledger.UpdateAssetInput{Amount: amountPtr(1)}, t0)
		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Fatalf("UpdateAsset() error = %v, want ErrAssetNotFound", err)
		}
		if next != p || same != a {
			t.Error("records changed on back-reference mismatch")
		}
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		p, a := setup(t)
		_, _, err := ledger.UpdateAsset("intruder", p, a, ledger.UpdateAssetInput{}, t0)
		if !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("UpdateAsset() error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("drifted total below holding is AggregateCorruption", func(t *testing.T) {
		p, a := setup(t)
		p.TotalValueUSD = 10
		_, _, err := ledger.UpdateAsset(owner, p, a, ledger.UpdateAssetInput{Amount: amountPtr(1)}, t0)
		if !errors.Is(err, apperrors.ErrAggregateCorruption) {
			t.Errorf("UpdateAsset() error = %v, want ErrAggregateCorruption", err)
		}
	})
}

func TestApplyValueDelta(t *testing.T) {
	tests := []struct {
		name               string
		total, old, newVal fixedpoint.Amount
		want               fixedpoint.Amount
		wantErr            error
	}{
		{name: "increase", total: 100, old: 40, newVal: 60, want: 120},
		{name: "decrease", total: 100, old: 40, newVal: 10, want: 70},
		{name: "transient negative recovers", total: 30, old: 40, newVal: 50, want: 40},
		{name: "negative result", total: 30, old: 40, newVal: 5, wantErr: apperrors.ErrAggregateCorruption},
		{name: "overflow", total: fixedpoint.Max, old: 0, newVal: 1, wantErr: apperrors.ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.ApplyValueDelta(tt.total, tt.old, tt.newVal)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ApplyValueDelta() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ApplyValueDelta() = %d, %v; want %d", got, err, tt.want)
			}
		})
	}
}

// TestAggregateInvariant drives random add/update sequences and checks that the
// stored total always equals the recomputed sum of holdings.
func TestAggregateInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := newPortfolio(t)
	var assets []model.CryptoAsset
	prevCount := p.TotalAssets

	for step := 0; step < 500; step++ {
		now := t0.Add(time.Duration(step) * time.Second)
		if len(assets) == 0 || rng.Intn(3) == 0 {
			in := ledger.AddAssetInput{
				Symbol:   "SYM",
				Amount:   fixedpoint.Amount(rng.Int63n(1_000_000_000) + 1),
				PriceUSD: fixedpoint.Amount(rng.Int63n(100_000_000_000) + 1),
				Network:  "net",
			}
			next, a, err := ledger.AddAsset(owner, p, "id", in, now)
			if err != nil {
				t.Fatalf("step %d: AddAsset() unexpected error: %v", step, err)
			}
			p = next
			assets = append(assets, a)
		} else {
			i := rng.Intn(len(assets))
			in := ledger.UpdateAssetInput{}
			if rng.Intn(2) == 0 {
				in.Amount = amountPtr(fixedpoint.Amount(rng.Int63n(1_000_000_000)))
			}
			if rng.Intn(2) == 0 {
				in.PriceUSD = amountPtr(fixedpoint.Amount(rng.Int63n(100_000_000_000)))
			}
			next, a, err := ledger.UpdateAsset(owner, p, assets[i], in, now)
			if err != nil {
				t.Fatalf("step %d: UpdateAsset() unexpected error: %v", step, err)
			}
			p = next
			assets[i] = a
		}

		if p.TotalAssets < prevCount {
			t.Fatalf("step %d: TotalAssets decreased from %d to %d", step, prevCount, p.TotalAssets)
		}
		prevCount = p.TotalAssets

		res, err := ledger.Reconcile(p, assets)
		if err != nil {
			t.Fatalf("step %d: Reconcile() unexpected error: %v", step, err)
		}
		if !res.Consistent {
			t.Fatalf("step %d: stored %d != computed %d", step, res.Stored, res.Computed)
		}
	}

	if int(p.TotalAssets) != len(assets) {
		t.Errorf("TotalAssets = %d, want %d", p.TotalAssets, len(assets))
	}
}

func TestRecordTransaction(t *testing.T) {
	valid := ledger.RecordTransactionInput{
		TransactionID: "tx-1",
		Amount:        -12_500_000,
		Type:          "expense",
		Category:      "food",
		Description:   "groceries",
	}

	t.Run("appends without touching totals", func(t *testing.T) {
		p, _, err := ledger.AddAsset(owner, newPortfolio(t), "a1", btc(), t0)
		if err != nil {
			t.Fatalf("AddAsset() unexpected error: %v", err)
		}
		now := t0.Add(time.Hour)

		next, rec, err := ledger.RecordTransaction(owner, p, "r1", valid, now)
		if err != nil {
			t.Fatalf("RecordTransaction() unexpected error: %v", err)
		}
		if next.TotalValueUSD != p.TotalValueUSD || next.TotalAssets != p.TotalAssets {
			t.Error("totals changed")
		}
		if !next.UpdatedAt.Equal(now) || !rec.Timestamp.Equal(now) {
			t.Error("timestamps not set to now")
		}
		if rec.PortfolioAddress != p.Address || rec.Amount != valid.Amount {
			t.Errorf("unexpected record %+v", rec)
		}
	})

	tests := []struct {
		name   string
		mutate func(in *ledger.RecordTransactionInput)
	}{
		{"transaction id too long", func(in *ledger.RecordTransactionInput) { in.TransactionID = string(make([]byte, 65)) }},
		{"type too long", func(in *ledger.RecordTransactionInput) { in.Type = string(make([]byte, 33)) }},
		{"category too long", func(in *ledger.RecordTransactionInput) { in.Category = string(make([]byte, 33)) }},
		{"description too long", func(in *ledger.RecordTransactionInput) { in.Description = string(make([]byte, 129)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, _, err := ledger.RecordTransaction(owner, newPortfolio(t), "r1", in, t0)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("RecordTransaction() error = %v, want ErrInvalidInput", err)
			}
		})
	}

	t.Run("empty transaction id is rejected", func(t *testing.T) {
		in := valid
		in.TransactionID = ""
		_, _, err := ledger.RecordTransaction(owner, newPortfolio(t), "r1", in, t0)
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("RecordTransaction() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("empty free-form fields are accepted", func(t *testing.T) {
		in := valid
		in.Type, in.Category, in.Description = "", "", ""
		_, rec, err := ledger.RecordTransaction(owner, newPortfolio(t), "r1", in, t0)
		if err != nil {
			t.Fatalf("RecordTransaction() unexpected error: %v", err)
		}
		if rec.Description != "" || rec.Type != "" || rec.Category != "" {
			t.Errorf("unexpected record %+v", rec)
		}
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		_, _, err := ledger.RecordTransaction("intruder", newPortfolio(t), "r1", valid, t0)
		if !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("RecordTransaction() error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestGoalLifecycle(t *testing.T) {
	goalInput := ledger.CreateGoalInput{
		Name:         "Emergency fund",
		TargetAmount: 1_000_000,
		TargetDate:   t0.AddDate(0, 6, 0),
		Category:     "savings",
	}

	create := func(t *testing.T) (model.Portfolio, model.FinancialGoal) {
		t.Helper()
		p, g, err := ledger.CreateGoal(owner, newPortfolio(t), "g1", goalInput, t0)
		if err != nil {
			t.Fatalf("CreateGoal() unexpected error: %v", err)
		}
		return p, g
	}

	t.Run("starts in progress", func(t *testing.T) {
		_, g := create(t)
		if g.CurrentAmount != 0 || g.IsCompleted || g.State() != model.GoalInProgress {
			t.Errorf("unexpected initial goal %+v", g)
		}
	})

	t.Run("scenario D: reaching the target completes the goal", func(t *testing.T) {
		p, g := create(t)
		_, g, err := ledger.UpdateGoalProgress(owner, p, g, 1_000_000, t0.Add(time.Hour))
		if err != nil {
			t.Fatalf("UpdateGoalProgress() unexpected error: %v", err)
		}
		if g.CurrentAmount != 1_000_000 || !g.IsCompleted {
			t.Errorf("got current %d, completed %v", g.CurrentAmount, g.IsCompleted)
		}
	})

	t.Run("scenario E: completed goal rejects further progress", func(t *testing.T) {
		p, g := create(t)
		p, g, err := ledger.UpdateGoalProgress(owner, p, g, 1_000_000, t0)
		if err != nil {
			t.Fatalf("UpdateGoalProgress() unexpected error: %v", err)
		}

		next, same, err := ledger.UpdateGoalProgress(owner, p, g, 1, t0.Add(time.Hour))
		if !errors.Is(err, apperrors.ErrGoalAlreadyCompleted) {
			t.Fatalf("UpdateGoalProgress() error = %v, want ErrGoalAlreadyCompleted", err)
		}
		if same.CurrentAmount != 1_000_000 || !same.IsCompleted || next != p {
			t.Error("completed goal or portfolio changed")
		}
	})

	t.Run("partial progress stays in progress", func(t *testing.T) {
		p, g := create(t)
		_, g, err := ledger.UpdateGoalProgress(owner, p, g, 400_000, t0)
		if err != nil {
			t.Fatalf("UpdateGoalProgress() unexpected error: %v", err)
		}
		if g.IsCompleted {
			t.Error("goal completed below target")
		}
	})

	t.Run("back-reference mismatch is GoalNotFound", func(t *testing.T) {
		p, g := create(t)
		g.PortfolioAddress = deriver.Derive("other", 0)
		_, same, err := ledger.UpdateGoalProgress(owner, p, g, 1, t0)
		if !errors.Is(err, apperrors.ErrGoalNotFound) {
			t.Fatalf("UpdateGoalProgress() error = %v, want ErrGoalNotFound", err)
		}
		if same != g {
			t.Error("goal changed on back-reference mismatch")
		}
	})

	t.Run("zero progress is rejected", func(t *testing.T) {
		p, g := create(t)
		_, _, err := ledger.UpdateGoalProgress(owner, p, g, 0, t0)
		if !errors.Is(err, apperrors.ErrInvalidAmount) {
			t.Errorf("UpdateGoalProgress() error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("progress overflow", func(t *testing.T) {
		p, g := create(t)
		g.TargetAmount = fixedpoint.Max
		g.CurrentAmount = fixedpoint.Max - 1
		_, _, err := ledger.UpdateGoalProgress(owner, p, g, 2, t0)
		if !errors.Is(err, apperrors.ErrOverflow) {
			t.Errorf("UpdateGoalProgress() error = %v, want ErrOverflow", err)
		}
	})

	t.Run("create validates input", func(t *testing.T) {
		bad := []ledger.CreateGoalInput{
			{Name: string(make([]byte, 65)), TargetAmount: 1, TargetDate: t0, Category: "c"},
			{Name: "n", TargetAmount: 1, TargetDate: t0, Category: string(make([]byte, 33))},
			{Name: "n", TargetAmount: 0, TargetDate: t0, Category: "c"},
			{Name: "", TargetAmount: 1, TargetDate: t0, Category: "c"},
		}
		for i, in := range bad {
			if _, _, err := ledger.CreateGoal(owner, newPortfolio(t), "g", in, t0); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("case %d: CreateGoal() error = %v, want ErrInvalidInput", i, err)
			}
		}
	})
}

func TestCreateGoalLenientFields(t *testing.T) {
	t.Run("empty category", func(t *testing.T) {
		in := ledger.CreateGoalInput{Name: "n", TargetAmount: 1, TargetDate: t0}
		if _, g, err := ledger.CreateGoal(owner, newPortfolio(t), "g", in, t0); err != nil || g.Category != "" {
			t.Errorf("CreateGoal() = %+v, %v", g, err)
		}
	})

	t.Run("zero target date", func(t *testing.T) {
		in := ledger.CreateGoalInput{Name: "n", TargetAmount: 1, Category: "c"}
		_, g, err := ledger.CreateGoal(owner, newPortfolio(t), "g", in, t0)
		if err != nil {
			t.Fatalf("CreateGoal() unexpected error: %v", err)
		}
		if !g.TargetDate.IsZero() {
			t.Errorf("TargetDate = %v, want zero", g.TargetDate)
		}
	})
}

func TestProgressOf(t *testing.T) {
	g := model.FinancialGoal{
		ID:            "g1",
		TargetAmount:  4_000_000,
		CurrentAmount: 1_000_000,
		TargetDate:    t0.Add(36 * time.Hour),
	}

	p := ledger.ProgressOf(g, t0)
	if p.Percentage != "25.00" {
		t.Errorf("Percentage = %q, want 25.00", p.Percentage)
	}
	if p.Remaining != 3_000_000 {
		t.Errorf("Remaining = %d, want 3000000", p.Remaining)
	}
	if p.DaysRemaining == nil || *p.DaysRemaining != 2 {
		t.Errorf("DaysRemaining = %v, want 2", p.DaysRemaining)
	}

	g.CurrentAmount, g.IsCompleted = 4_000_000, true
	p = ledger.ProgressOf(g, t0)
	if p.State != model.GoalCompleted || p.DaysRemaining != nil || p.Remaining != 0 || p.Percentage != "100.00" {
		t.Errorf("unexpected completed progress %+v", p)
	}
}
