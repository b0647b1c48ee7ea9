package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// RecordSubmission inserts an audit record and sets its CreatedAt.
func (db *DB) RecordSubmission(ctx context.Context, rec *SubmissionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO submissions (id, case_number, client_name, entity_type, account_type,
		                          consent, document_count, attachment_count, progress, upstream_status, outcome)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at`,
		rec.ID, rec.CaseNumber, rec.ClientName, rec.EntityType, rec.AccountType,
		rec.Consent, rec.DocumentCount, rec.AttachmentCount, rec.Progress, rec.UpstreamStatus, rec.Outcome,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves an audit record by ID.
func (db *DB) GetSubmission(ctx context.Context, id uuid.UUID) (*SubmissionRecord, error) {
	var rec SubmissionRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, case_number, client_name, entity_type, account_type, consent,
		        document_count, attachment_count, progress, upstream_status, outcome, created_at
		 FROM submissions WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.CaseNumber, &rec.ClientName, &rec.EntityType, &rec.AccountType, &rec.Consent,
		&rec.DocumentCount, &rec.AttachmentCount, &rec.Progress, &rec.UpstreamStatus, &rec.Outcome, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &rec, nil
}

// ListSubmissionsByCase returns audit records for a case, newest first.
func (db *DB) ListSubmissionsByCase(ctx context.Context, caseNumber string) ([]SubmissionRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, case_number, client_name, entity_type, account_type, consent,
		        document_count, attachment_count, progress, upstream_status, outcome, created_at
		 FROM submissions WHERE case_number = $1
		 ORDER BY created_at DESC`,
		caseNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var out []SubmissionRecord
	for rows.Next() {
		var rec SubmissionRecord
		if err := rows.Scan(&rec.ID, &rec.CaseNumber, &rec.ClientName, &rec.EntityType, &rec.AccountType, &rec.Consent,
			&rec.DocumentCount, &rec.AttachmentCount, &rec.Progress, &rec.UpstreamStatus, &rec.Outcome, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return out, nil
}
