package budget

import (
	"sync"

	"github.com/shopspring/decimal"
)

// AnalysisBudget is the spend cap of a single analysis. It is safe for
// concurrent use because phase-3 calls release from their own goroutines.
type AnalysisBudget struct {
	mu    sync.Mutex
	limit decimal.Decimal
	spent decimal.Decimal
}

// NewAnalysisBudget creates a cap of limit.
func NewAnalysisBudget(limit float64) *AnalysisBudget {
	return &AnalysisBudget{limit: decimal.NewFromFloat(limit)}
}

func (b *AnalysisBudget) Reserve(amount float64) bool {
	if amount < 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	amt := decimal.NewFromFloat(amount)
	if b.spent.Add(amt).GreaterThan(b.limit) {
		return false
	}
	b.spent = b.spent.Add(amt)
	return true
}

func (b *AnalysisBudget) Release(amount float64) {
	if amount <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.spent = decimal.Max(decimal.Zero, b.spent.Sub(decimal.NewFromFloat(amount)))
}

func (b *AnalysisBudget) Remaining() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return decimal.Max(decimal.Zero, b.limit.Sub(b.spent)).InexactFloat64()
}

// Spent returns the amount currently reserved.
func (b *AnalysisBudget) Spent() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.spent.InexactFloat64()
}

// ReserveBoth reserves amount against the analysis cap and the shared ledger,
// or against neither. refusedBy is the ledger that said no.
func ReserveBoth(analysis, daily Ledger, amount float64) (ok bool, refusedBy Ledger) {
	if !analysis.Reserve(amount) {
		return false, analysis
	}
	if !daily.Reserve(amount) {
		analysis.Release(amount)
		return false, daily
	}
	return true, nil
}

var (
	_ Ledger = (*DailyLedger)(nil)
	_ Ledger = (*AnalysisBudget)(nil)
)
