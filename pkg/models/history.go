package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationRecord is one row of the cross-session application ledger. The
// ledger is an audit trail; the in-session Working Set never reads from it.
type ApplicationRecord struct {
	ID             uuid.UUID `db:"id"               json:"id"`
	SessionID      uuid.UUID `db:"session_id"       json:"session_id"`
	JobID          string    `db:"job_id"           json:"job_id"`
	Title          string    `db:"title"            json:"title"`
	Company        string    `db:"company"          json:"company"`
	Location       string    `db:"location"         json:"location"`
	AppliedDate    time.Time `db:"applied_date"     json:"applied_date"`
	HasCoverLetter bool      `db:"has_cover_letter" json:"has_cover_letter"`
	CreatedAt      time.Time `db:"created_at"       json:"created_at"`
}
