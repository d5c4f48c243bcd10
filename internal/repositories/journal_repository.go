package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/junimomarket/junimo-market/internal/utils"
)

// Attempt statuses. An attempt that stays pending marks an ambiguous
// outcome: the gateway call neither confirmed nor cleanly failed.
const (
	AttemptStatusPending   = "pending"
	AttemptStatusSucceeded = "succeeded"
	AttemptStatusFailed    = "failed"
)

// SubmissionAttempt is one checkout submission, keyed by the client-side
// idempotency token. The legacy order endpoint cannot de-duplicate, so the
// journal is what lets operators reconcile suspected double submissions.
type SubmissionAttempt struct {
	ID           string
	OrderNumber  string
	UserRun      string
	Total        int
	DiscountCode string
	Status       string
	ErrorCode    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type JournalRepository struct {
	DB *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{DB: db}
}

func (r *JournalRepository) RecordAttempt(ctx context.Context, attempt *SubmissionAttempt) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO submission_attempts (id, order_number, user_run, total, discount_code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`

	_, err := r.DB.ExecContext(dbCtx, query,
		attempt.ID, attempt.OrderNumber, attempt.UserRun, attempt.Total, attempt.DiscountCode, AttemptStatusPending)
	if err != nil {
		return fmt.Errorf("failed to insert submission attempt: %w", err)
	}

	return nil
}

func (r *JournalRepository) MarkOutcome(ctx context.Context, id, status, errorCode string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE submission_attempts
		SET status = $1, error_code = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, errorCode, id)
	if err != nil {
		return fmt.Errorf("failed to update submission attempt: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *JournalRepository) ListAttemptsByUser(ctx context.Context, userRun string) ([]SubmissionAttempt, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, order_number, user_run, total, discount_code, status, COALESCE(error_code, ''), created_at, updated_at
		FROM submission_attempts
		WHERE user_run = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userRun)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission attempts: %w", err)
	}

	defer rows.Close()

	var attempts []SubmissionAttempt

	for rows.Next() {

		var attempt SubmissionAttempt

		err := rows.Scan(&attempt.ID, &attempt.OrderNumber, &attempt.UserRun, &attempt.Total,
			&attempt.DiscountCode, &attempt.Status, &attempt.ErrorCode, &attempt.CreatedAt, &attempt.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission attempt: %w", err)
		}

		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submission attempts: %w", err)
	}

	return attempts, nil
}
