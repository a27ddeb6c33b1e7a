package services

import (
	"context"
	"errors"

	"KANBAN_CRM_BACK-END/internal/auth"
	"KANBAN_CRM_BACK-END/internal/logging"
	"KANBAN_CRM_BACK-END/internal/models"
	"KANBAN_CRM_BACK-END/internal/repository"
)

// RecordService implements ownership-scoped CRUD over CRM records
type RecordService struct {
	store  repository.Store
	logger logging.Logger
}

// NewRecordService constructs a RecordService
func NewRecordService(store repository.Store, logger logging.Logger) *RecordService {
	return &RecordService{store: store, logger: logger.With("service", "records")}
}

// List returns every record owned by the caller
func (s *RecordService) List(ctx context.Context, id auth.Identity) ([]models.Record, error) {
	records, err := s.store.ListRecordsForUser(ctx, id.UserID)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "list records", err)
	}
	return records, nil
}

// Create persists a record owned by the caller
func (s *RecordService) Create(ctx context.Context, id auth.Identity, fields models.RecordFields) (*models.Record, error) {
	record, err := s.store.CreateRecord(ctx, id.UserID, fields)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "create record", err)
	}
	return record, nil
}

// Update applies patch to the caller's record. A record owned by someone
// else is reported exactly like a missing one.
func (s *RecordService) Update(ctx context.Context, id auth.Identity, recordID int64, patch models.RecordPatch) (*models.Record, error) {
	var updated *models.Record
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		record, err := tx.FindRecordForUser(ctx, recordID, id.UserID)
		if err != nil {
			return err
		}
		updated, err = tx.UpdateRecordFields(ctx, record, patch)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure(ctx, s.logger, "update record", err)
	}
	return updated, nil
}

// Delete removes the caller's record
func (s *RecordService) Delete(ctx context.Context, id auth.Identity, recordID int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		record, err := tx.FindRecordForUser(ctx, recordID, id.UserID)
		if err != nil {
			return err
		}
		return tx.DeleteRecord(ctx, record)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storageFailure(ctx, s.logger, "delete record", err)
	}
	return nil
}
