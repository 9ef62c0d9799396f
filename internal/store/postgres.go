package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dallenport/jobpilot/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// RecordApplication appends a successful application to the ledger. A repeat
// of the same (session, job) pair is a duplicate-key violation.
func (s *PostgresStore) RecordApplication(ctx context.Context, sessionID uuid.UUID, record models.AppliedJob) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO applications (id, session_id, job_id, title, company, location, applied_date, has_cover_letter, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), sessionID, record.ID, record.Title, record.Company, record.Location,
		record.AppliedDate.UTC(), record.HasCoverLetter, time.Now().UTC())
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("record application: %w", err)
	}
	return nil
}

// ListApplications returns ledger rows matching the filter, newest first,
// along with the total match count for pagination.
func (s *PostgresStore) ListApplications(ctx context.Context, filter HistoryFilter) ([]*models.ApplicationRecord, int, error) {
	where := " WHERE 1=1"
	args := []any{}

	if filter.SessionID != uuid.Nil {
		args = append(args, filter.SessionID)
		where += fmt.Sprintf(" AND session_id = $%d", len(args))
	}
	if filter.Company != "" {
		args = append(args, filter.Company)
		where += fmt.Sprintf(" AND company = $%d", len(args))
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM applications"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	args = append(args, limit, (page-1)*limit)
	query := `SELECT id, session_id, job_id, title, company, location, applied_date, has_cover_letter, created_at
		 FROM applications` + where +
		fmt.Sprintf(" ORDER BY applied_date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var records []*models.ApplicationRecord
	for rows.Next() {
		var r models.ApplicationRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.JobID, &r.Title, &r.Company,
			&r.Location, &r.AppliedDate, &r.HasCoverLetter, &r.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan application: %w", err)
		}
		records = append(records, &r)
	}
	return records, total, rows.Err()
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
