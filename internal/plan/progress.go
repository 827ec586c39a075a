package plan

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidPlan = errors.New("plan duration must be greater than zero")

// Progress holds display-ready completion metrics for a payout plan.
type Progress struct {
	Percent         int64           `json:"percent"`
	AmountDisbursed decimal.Decimal `json:"amount_disbursed"`
}

// Compute derives progress metrics from a plan's counters. Duration is the
// total number of scheduled payouts and must be positive; a zero or negative
// duration is rejected instead of producing a nonsense percentage.
//
// Percent is not clamped: a plan whose completed_payouts has drifted above
// its duration reports more than 100%.
func Compute(completedPayouts, duration int, payoutAmount decimal.Decimal) (*Progress, error) {
	if duration <= 0 {
		return nil, ErrInvalidPlan
	}

	percent := decimal.NewFromInt(int64(completedPayouts) * 100).
		Div(decimal.NewFromInt(int64(duration))).
		Round(0).
		IntPart()

	return &Progress{
		Percent:         percent,
		AmountDisbursed: payoutAmount.Mul(decimal.NewFromInt(int64(completedPayouts))),
	}, nil
}
