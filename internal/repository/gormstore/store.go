// Package gormstore implements the repository contract with gorm on SQLite.
// It backs local development (DB_DRIVER=sqlite) and the service tests.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"KANBAN_CRM_BACK-END/internal/models"
	"KANBAN_CRM_BACK-END/internal/repository"
)

// Store is the gorm-backed repository.Store
type Store struct {
	db *gorm.DB
}

var _ repository.Store = (*Store)(nil)

// Open opens the SQLite database at path and migrates the schema.
// Use "file::memory:?cache=shared" style DSNs for ephemeral databases.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// SQLite allows a single writer; serialize through one connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Record{}, &models.Book{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// WithTx runs fn in a gorm transaction; gorm commits on nil and rolls back otherwise
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx})
	})
}

// Ping checks connectivity
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	user := models.User{Email: email, PasswordHash: passwordHash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *Store) ListRecordsForUser(ctx context.Context, userID int64) ([]models.Record, error) {
	records := []models.Record{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

func (s *Store) CreateRecord(ctx context.Context, ownerID int64, f models.RecordFields) (*models.Record, error) {
	record := models.Record{
		UserID:       ownerID,
		Name:         f.Name,
		Email:        f.Email,
		PhoneNumber:  f.PhoneNumber,
		Organization: f.Organization,
		Description:  f.Description,
		Revenue:      f.Revenue,
		Status:       f.Status,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return &record, nil
}

func (s *Store) FindRecordForUser(ctx context.Context, recordID, ownerID int64) (*models.Record, error) {
	var record models.Record
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", recordID, ownerID).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	return &record, nil
}

func (s *Store) UpdateRecordFields(ctx context.Context, record *models.Record, patch models.RecordPatch) (*models.Record, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return record, nil
	}

	result := s.db.WithContext(ctx).Model(&models.Record{}).
		Where("id = ? AND user_id = ?", record.ID, record.UserID).
		Updates(cols)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return s.FindRecordForUser(ctx, record.ID, record.UserID)
}

func (s *Store) DeleteRecord(ctx context.Context, record *models.Record) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", record.ID, record.UserID).Delete(&models.Record{})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) ListBooksForUser(ctx context.Context, userID int64) ([]models.Book, error) {
	books := []models.Book{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *Store) CreateBook(ctx context.Context, ownerID int64, f models.BookFields) (*models.Book, error) {
	book := models.Book{UserID: ownerID, Title: f.Title, Author: f.Author, Status: f.Status}
	if err := s.db.WithContext(ctx).Create(&book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return &book, nil
}

func (s *Store) FindBookForUser(ctx context.Context, bookID, ownerID int64) (*models.Book, error) {
	var book models.Book
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", bookID, ownerID).Take(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	return &book, nil
}

func (s *Store) UpdateBookFields(ctx context.Context, book *models.Book, patch models.BookPatch) (*models.Book, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return book, nil
	}

	result := s.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND user_id = ?", book.ID, book.UserID).
		Updates(cols)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return s.FindBookForUser(ctx, book.ID, book.UserID)
}

func (s *Store) DeleteBook(ctx context.Context, book *models.Book) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", book.ID, book.UserID).Delete(&models.Book{})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
