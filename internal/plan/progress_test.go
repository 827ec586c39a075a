package plan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name             string
		completedPayouts int
		duration         int
		payoutAmount     string
		wantPercent      int64
		wantDisbursed    string
	}{
		{"part way through", 3, 10, "50000", 30, "150000"},
		{"nothing disbursed yet", 0, 10, "50000", 0, "0"},
		{"completed", 12, 12, "25000", 100, "300000"},
		{"rounds half up", 1, 3, "1000", 33, "1000"},
		{"two thirds", 2, 3, "1000", 67, "2000"},
		{"overshoot stays visible", 11, 10, "50000", 110, "550000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress, err := Compute(tt.completedPayouts, tt.duration, decimal.RequireFromString(tt.payoutAmount))
			require.NoError(t, err)
			require.Equal(t, tt.wantPercent, progress.Percent)
			require.True(t, progress.AmountDisbursed.Equal(decimal.RequireFromString(tt.wantDisbursed)),
				"got %s", progress.AmountDisbursed)
		})
	}
}

func TestCompute_RejectsNonPositiveDuration(t *testing.T) {
	_, err := Compute(3, 0, decimal.NewFromInt(50_000))
	require.ErrorIs(t, err, ErrInvalidPlan)

	_, err = Compute(3, -1, decimal.NewFromInt(50_000))
	require.ErrorIs(t, err, ErrInvalidPlan)
}
