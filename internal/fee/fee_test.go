package fee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewQuote_FiveHundredThousandNaira(t *testing.T) {
	principal := decimal.NewFromInt(500_000)

	tests := []struct {
		tier      Tier
		feeAmount string
		netAmount string
	}{
		{TierInstant, "60000", "440000"},
		{TierTwentyFourHour, "30000", "470000"},
		{TierSeventyTwoHour, "0", "500000"},
	}

	for _, tt := range tests {
		quote, err := NewQuote(principal, tt.tier)
		require.NoError(t, err)
		require.True(t, quote.FeeAmount.Equal(decimal.RequireFromString(tt.feeAmount)), "fee for %s: got %s", tt.tier, quote.FeeAmount)
		require.True(t, quote.NetAmount.Equal(decimal.RequireFromString(tt.netAmount)), "net for %s: got %s", tt.tier, quote.NetAmount)
	}
}

func TestNewQuote_FeePlusNetReconstructsPrincipal(t *testing.T) {
	principals := []string{"0", "1", "0.01", "99.99", "12345.67", "500000", "999999999.99"}
	tiers := []Tier{TierInstant, TierTwentyFourHour, TierSeventyTwoHour}

	for _, p := range principals {
		principal := decimal.RequireFromString(p)
		for _, tier := range tiers {
			quote, err := NewQuote(principal, tier)
			require.NoError(t, err)
			require.True(t, quote.FeeAmount.Add(quote.NetAmount).Equal(principal),
				"fee %s + net %s != principal %s at tier %s", quote.FeeAmount, quote.NetAmount, principal, tier)
		}
	}
}

func TestNewQuote_ZeroPrincipalIsValid(t *testing.T) {
	for _, tier := range []Tier{TierInstant, TierTwentyFourHour, TierSeventyTwoHour} {
		quote, err := NewQuote(decimal.Zero, tier)
		require.NoError(t, err)
		require.True(t, quote.FeeAmount.IsZero())
		require.True(t, quote.NetAmount.IsZero())
	}
}

func TestNewQuote_FasterTiersPayOutLess(t *testing.T) {
	principal := decimal.NewFromInt(250_000)

	instant, err := NewQuote(principal, TierInstant)
	require.NoError(t, err)
	day, err := NewQuote(principal, TierTwentyFourHour)
	require.NoError(t, err)
	threeDays, err := NewQuote(principal, TierSeventyTwoHour)
	require.NoError(t, err)

	require.True(t, instant.NetAmount.LessThan(day.NetAmount))
	require.True(t, day.NetAmount.LessThan(threeDays.NetAmount))
	require.True(t, threeDays.NetAmount.Equal(principal))
}

func TestNewQuote_RoundsFeeHalfUpToKobo(t *testing.T) {
	// 0.12 * 100.375 = 12.045, which rounds half-up to 12.05.
	quote, err := NewQuote(decimal.RequireFromString("100.375"), TierInstant)
	require.NoError(t, err)
	require.True(t, quote.FeeAmount.Equal(decimal.RequireFromString("12.05")), "got %s", quote.FeeAmount)
	require.True(t, quote.NetAmount.Equal(decimal.RequireFromString("88.325")), "got %s", quote.NetAmount)
}

func TestNewQuote_RejectsNegativePrincipal(t *testing.T) {
	_, err := NewQuote(decimal.NewFromInt(-1), TierInstant)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestNewQuote_RejectsUnknownTier(t *testing.T) {
	_, err := NewQuote(decimal.NewFromInt(100), Tier("next_week"))
	require.ErrorIs(t, err, ErrInvalidTier)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("500000")
	require.NoError(t, err)
	require.True(t, amount.Equal(decimal.NewFromInt(500_000)))

	amount, err = ParseAmount("0")
	require.NoError(t, err)
	require.True(t, amount.IsZero())

	for _, bad := range []string{"", "abc", "12a", "-50", "NaN", "1,000"} {
		_, err = ParseAmount(bad)
		require.ErrorIs(t, err, ErrInvalidAmount, "expected %q to be rejected", bad)
	}
}

func TestRate(t *testing.T) {
	rate, ok := Rate(TierInstant)
	require.True(t, ok)
	require.True(t, rate.Equal(decimal.RequireFromString("0.12")))

	rate, ok = Rate(TierTwentyFourHour)
	require.True(t, ok)
	require.True(t, rate.Equal(decimal.RequireFromString("0.06")))

	rate, ok = Rate(TierSeventyTwoHour)
	require.True(t, ok)
	require.True(t, rate.IsZero())

	_, ok = Rate(Tier("same_day"))
	require.False(t, ok)
}
