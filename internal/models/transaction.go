package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID              string          `db:"id"`
	UserID          string          `db:"user_id"`
	WalletID        string          `db:"wallet_id"`
	PlanID          sql.NullString  `db:"plan_id"`
	Type            string          `db:"type"`
	Amount          decimal.Decimal `db:"amount"`
	FeeAmount       decimal.Decimal `db:"fee_amount"`
	ReferenceNumber string          `db:"reference_number"`
	Status          string          `db:"status"`
	Description     sql.NullString  `db:"description"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       sql.NullTime    `db:"updated_at"`
}
