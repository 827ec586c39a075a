package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// PayoutPlan is a user's commitment to receive TotalAmount back in Duration
// scheduled payouts of PayoutAmount each. CompletedPayouts counts how many
// have been disbursed so far.
type PayoutPlan struct {
	ID               string          `db:"id"`
	UserID           string          `db:"user_id"`
	WalletID         string          `db:"wallet_id"`
	Name             string          `db:"name"`
	PayoutAmount     decimal.Decimal `db:"payout_amount"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Duration         int             `db:"duration"`
	CompletedPayouts int             `db:"completed_payouts"`
	Frequency        string          `db:"frequency"`
	Status           string          `db:"status"`
	NextPayoutAt     sql.NullTime    `db:"next_payout_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        sql.NullTime    `db:"updated_at"`
}
