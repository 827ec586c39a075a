package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet keeps two balances: funds the user can spend right away and funds
// locked into active payout plans. Emergency withdrawals move money from the
// locked side back to the available side, less the urgency fee.
type Wallet struct {
	ID               string          `db:"id"`
	UserID           string          `db:"user_id"`
	AvailableBalance decimal.Decimal `db:"available_balance"`
	LockedBalance    decimal.Decimal `db:"locked_balance"`
	AccountNumber    string          `db:"account_number"`
	Currency         string          `db:"currency"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	DeletedAt        sql.NullTime    `db:"deleted_at"`
	UpdatedAt        sql.NullTime    `db:"updated_at"`
}
