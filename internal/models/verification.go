package models

import (
	"database/sql"
	"time"
)

// KYCVerification is one verification attempt recorded from the identity
// provider. Category is either "identity" (BVN/NIN lookup) or "document"
// (government-issued ID upload). Only the most recent record per category
// counts towards a user's tier.
type KYCVerification struct {
	ID                string         `db:"id"`
	UserID            string         `db:"user_id"`
	Category          string         `db:"category"`
	Provider          string         `db:"provider"`
	ProviderReference sql.NullString `db:"provider_reference"`
	DocumentURL       sql.NullString `db:"document_url"`
	Status            string         `db:"status"`
	CreatedAt         time.Time      `db:"created_at"`
}
