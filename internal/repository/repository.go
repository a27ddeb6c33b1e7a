// Package repository declares the storage contract consumed by the services.
// Every record and book lookup is scoped by owner inside the query itself.
package repository

import (
	"context"
	"errors"

	"KANBAN_CRM_BACK-END/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the lookup
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user with the email already exists
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository persists user credentials
type UserRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
}

// RecordRepository persists CRM records
type RecordRepository interface {
	ListRecordsForUser(ctx context.Context, userID int64) ([]models.Record, error)
	CreateRecord(ctx context.Context, ownerID int64, fields models.RecordFields) (*models.Record, error)
	FindRecordForUser(ctx context.Context, recordID, ownerID int64) (*models.Record, error)
	UpdateRecordFields(ctx context.Context, record *models.Record, patch models.RecordPatch) (*models.Record, error)
	DeleteRecord(ctx context.Context, record *models.Record) error
}

// BookRepository persists books
type BookRepository interface {
	ListBooksForUser(ctx context.Context, userID int64) ([]models.Book, error)
	CreateBook(ctx context.Context, ownerID int64, fields models.BookFields) (*models.Book, error)
	FindBookForUser(ctx context.Context, bookID, ownerID int64) (*models.Book, error)
	UpdateBookFields(ctx context.Context, book *models.Book, patch models.BookPatch) (*models.Book, error)
	DeleteBook(ctx context.Context, book *models.Book) error
}

// Repositories groups every repository bound to one handle (pool or transaction)
type Repositories interface {
	UserRepository
	RecordRepository
	BookRepository
}

// Store is the process-wide storage handle.
//
// WithTx runs fn inside a transaction: it commits when fn returns nil and
// rolls back on error or panic. The Repositories passed to fn must not be
// used after fn returns.
type Store interface {
	Repositories
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
	Ping(ctx context.Context) error
	Close() error
}
