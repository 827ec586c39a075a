package fee

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Tier is the urgency option a user picks when requesting an emergency
// withdrawal from an active payout plan. Faster access costs more.
type Tier string

const (
	TierInstant        Tier = "instant"
	TierTwentyFourHour Tier = "24_hours"
	TierSeventyTwoHour Tier = "72_hours"
)

var (
	ErrInvalidAmount = errors.New("amount must be a valid non-negative number")
	ErrInvalidTier   = errors.New("unknown withdrawal tier")
)

// Naira amounts are rounded to 2 decimal places (kobo).
const minorUnitPlaces = 2

// schedule maps each urgency tier to its fee rate.
// Instant access carries the highest operational cost, the 72-hour option
// carries no urgency premium at all.
var schedule = map[Tier]decimal.Decimal{
	TierInstant:        decimal.NewFromFloat(0.12),
	TierTwentyFourHour: decimal.NewFromFloat(0.06),
	TierSeventyTwoHour: decimal.Zero,
}

// Rate returns the fee rate for the given urgency tier. The boolean reports
// whether the tier is one of the known tiers.
func Rate(tier Tier) (decimal.Decimal, bool) {
	rate, ok := schedule[tier]
	return rate, ok
}

// Quote is the fee breakdown shown to a user before they confirm an
// emergency withdrawal. It is recomputed from the principal and tier every
// time it is needed and never persisted; only the executed withdrawal is.
type Quote struct {
	Principal decimal.Decimal `json:"principal"`
	Tier      Tier            `json:"tier"`
	FeeRate   decimal.Decimal `json:"fee_rate"`
	FeeAmount decimal.Decimal `json:"fee_amount"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// NewQuote computes the fee and net payout for withdrawing principal at the
// given urgency tier. The fee is rounded half-up to kobo precision, so
// FeeAmount + NetAmount always reconstructs the principal exactly.
// A zero principal yields a zero quote, not an error. The actual debit,
// credit and persistence of the withdrawal are the caller's concern.
func NewQuote(principal decimal.Decimal, tier Tier) (*Quote, error) {
	if principal.IsNegative() {
		return nil, ErrInvalidAmount
	}

	rate, ok := Rate(tier)
	if !ok {
		return nil, ErrInvalidTier
	}

	feeAmount := principal.Mul(rate).Round(minorUnitPlaces)

	return &Quote{
		Principal: principal,
		Tier:      tier,
		FeeRate:   rate,
		FeeAmount: feeAmount,
		NetAmount: principal.Sub(feeAmount),
	}, nil
}

// ParseAmount parses a user-supplied amount. Anything that is not a
// non-negative number is rejected with ErrInvalidAmount; we never coerce bad
// input to zero and quote on it.
func ParseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}

	return amount, nil
}
