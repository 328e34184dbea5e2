package calculator

import (
	"fmt"
	"sort"

	"StatementSentinel/internal/model"
)

// BalanceSummary describes the running-balance trajectory of a statement.
type BalanceSummary struct {
	AverageDailyBalance float64
	PeriodDays          int
	MinimumBalance      float64
	MaximumBalance      float64
	EndingBalance       float64
	NegativeBalanceDays int
}

// CalculateDailyBalance walks the transactions in date order from the opening
// balance. AverageDailyBalance is the equal-weighted mean of the balance after
// each transaction, and PeriodDays counts distinct transaction dates. With no
// transactions the average is the opening balance and PeriodDays is zero.
func CalculateDailyBalance(txns []model.Transaction, opening float64) (BalanceSummary, error) {
	if !finite(opening) {
		return BalanceSummary{}, fmt.Errorf("opening balance %v: %w", opening, model.ErrTypeMismatch)
	}
	if err := checkAmounts(txns); err != nil {
		return BalanceSummary{}, err
	}
	if len(txns) == 0 {
		return BalanceSummary{
			AverageDailyBalance: opening,
			MinimumBalance:      opening,
			MaximumBalance:      opening,
			EndingBalance:       opening,
		}, nil
	}

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	// endOfDay keeps the last balance seen on each date, in date order.
	type dayBalance struct {
		key     string
		balance float64
	}
	var days []dayBalance

	running, sum := opening, 0.0
	s := BalanceSummary{MinimumBalance: sorted[0].Amount + opening, MaximumBalance: sorted[0].Amount + opening}
	for _, txn := range sorted {
		running += txn.Amount
		sum += running
		if running < s.MinimumBalance {
			s.MinimumBalance = running
		}
		if running > s.MaximumBalance {
			s.MaximumBalance = running
		}
		key := txn.Date.Format("2006-01-02")
		if n := len(days); n > 0 && days[n-1].key == key {
			days[n-1].balance = running
		} else {
			days = append(days, dayBalance{key: key, balance: running})
		}
	}

	for _, d := range days {
		if d.balance < 0 {
			s.NegativeBalanceDays++
		}
	}
	s.PeriodDays = len(days)
	s.AverageDailyBalance = sum / float64(len(sorted))
	s.EndingBalance = running
	return s, nil
}
