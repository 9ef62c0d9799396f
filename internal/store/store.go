package store

import (
	"context"
	"errors"

	"github.com/dallenport/jobpilot/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the application-history ledger. All database operations go through
// here. The ledger is append-only per session.
type Store interface {
	Ping(ctx context.Context) error
	RecordApplication(ctx context.Context, sessionID uuid.UUID, record models.AppliedJob) error
	ListApplications(ctx context.Context, filter HistoryFilter) ([]*models.ApplicationRecord, int, error)
}

// HistoryFilter narrows a ledger query. Zero values mean "any".
type HistoryFilter struct {
	SessionID uuid.UUID
	Company   string
	Page      int
	Limit     int
}
