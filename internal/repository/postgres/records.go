package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"KANBAN_CRM_BACK-END/internal/models"
	"KANBAN_CRM_BACK-END/internal/repository"
)

const recordColumns = `id, user_id, name, email, phone_number, organization, description, revenue, status, created_at, updated_at`

func scanRecord(row scanner) (models.Record, error) {
	var r models.Record
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Email, &r.PhoneNumber, &r.Organization,
		&r.Description, &r.Revenue, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (q *Queries) ListRecordsForUser(ctx context.Context, userID int64) ([]models.Record, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+recordColumns+` FROM records WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return records, nil
}

func (q *Queries) CreateRecord(ctx context.Context, ownerID int64, f models.RecordFields) (*models.Record, error) {
	query :=
		`INSERT INTO records (user_id, name, email, phone_number, organization, description, revenue, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING ` + recordColumns

	r, err := scanRecord(q.db.QueryRow(ctx, query,
		ownerID, f.Name, f.Email, f.PhoneNumber, f.Organization, f.Description, f.Revenue, f.Status))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &r, nil
}

func (q *Queries) FindRecordForUser(ctx context.Context, recordID, ownerID int64) (*models.Record, error) {
	r, err := scanRecord(q.db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = $1 AND user_id = $2`, recordID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &r, nil
}

func (q *Queries) UpdateRecordFields(ctx context.Context, record *models.Record, patch models.RecordPatch) (*models.Record, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return record, nil
	}

	set, args := setClause(cols)
	n := len(args)
	query := fmt.Sprintf(
		`UPDATE records SET %s, updated_at = now()
		 WHERE id = $%d AND user_id = $%d
		 RETURNING %s`, set, n+1, n+2, recordColumns)
	args = append(args, record.ID, record.UserID)

	r, err := scanRecord(q.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &r, nil
}

func (q *Queries) DeleteRecord(ctx context.Context, record *models.Record) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM records WHERE id = $1 AND user_id = $2`, record.ID, record.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
