package services

import (
	"context"
	"errors"

	"KANBAN_CRM_BACK-END/internal/auth"
	"KANBAN_CRM_BACK-END/internal/logging"
	"KANBAN_CRM_BACK-END/internal/models"
	"KANBAN_CRM_BACK-END/internal/repository"
)

// BookService implements ownership-scoped CRUD over books
type BookService struct {
	store  repository.Store
	logger logging.Logger
}

func NewBookService(store repository.Store, logger logging.Logger) *BookService {
	return &BookService{store: store, logger: logger.With("service", "books")}
}

func (s *BookService) List(ctx context.Context, id auth.Identity) ([]models.Book, error) {
	books, err := s.store.ListBooksForUser(ctx, id.UserID)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "list books", err)
	}
	return books, nil
}

func (s *BookService) Create(ctx context.Context, id auth.Identity, fields models.BookFields) (*models.Book, error) {
	book, err := s.store.CreateBook(ctx, id.UserID, fields)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "create book", err)
	}
	return book, nil
}

func (s *BookService) Update(ctx context.Context, id auth.Identity, bookID int64, patch models.BookPatch) (*models.Book, error) {
	var updated *models.Book
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		book, err := tx.FindBookForUser(ctx, bookID, id.UserID)
		if err != nil {
			return err
		}
		updated, err = tx.UpdateBookFields(ctx, book, patch)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure(ctx, s.logger, "update book", err)
	}
	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, id auth.Identity, bookID int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		book, err := tx.FindBookForUser(ctx, bookID, id.UserID)
		if err != nil {
			return err
		}
		return tx.DeleteBook(ctx, book)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storageFailure(ctx, s.logger, "delete book", err)
	}
	return nil
}
