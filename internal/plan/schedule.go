package plan

import "time"

// NextPayout returns when the payout after the given one falls due. Unknown
// frequencies fall back to monthly, the most common cadence.
func NextPayout(from time.Time, frequency string) time.Time {
	switch frequency {
	case "daily":
		return from.AddDate(0, 0, 1)
	case "weekly":
		return from.AddDate(0, 0, 7)
	case "biweekly":
		return from.AddDate(0, 0, 14)
	case "monthly":
		return from.AddDate(0, 1, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}
