package models

import "time"

// ActivityLog is an append-only audit record. Entity names the table the
// record refers to and EntityID the row within it.
type ActivityLog struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Entity      string    `db:"entity"`
	EntityID    string    `db:"entity_id"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
