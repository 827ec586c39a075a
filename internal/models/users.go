package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID             string         `db:"id"`
	KycTier        int16          `db:"kyc_tier"`
	FirstName      string         `db:"first_name"`
	LastName       string         `db:"last_name"`
	PhoneNumber    string         `db:"phone_number"`
	Email          string         `db:"email"`
	Status         string         `db:"status"`
	Pin            sql.NullInt32  `db:"pin"`
	Image          sql.NullString `db:"image"`
	CreatedAt      time.Time      `db:"created_at"`
	DeletedAt      sql.NullTime   `db:"deleted_at"`
	VerifiedAt     sql.NullTime   `db:"verified_at"`
	HashedPassword string         `db:"hashed_password"`
}
