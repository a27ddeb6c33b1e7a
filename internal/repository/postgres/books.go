package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"KANBAN_CRM_BACK-END/internal/models"
	"KANBAN_CRM_BACK-END/internal/repository"
)

const bookColumns = `id, user_id, title, author, status`

func scanBook(row scanner) (models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Author, &b.Status)
	return b, err
}

func (q *Queries) ListBooksForUser(ctx context.Context, userID int64) ([]models.Book, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+bookColumns+` FROM books WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return books, nil
}

func (q *Queries) CreateBook(ctx context.Context, ownerID int64, f models.BookFields) (*models.Book, error) {
	b, err := scanBook(q.db.QueryRow(ctx,
		`INSERT INTO books (user_id, title, author, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+bookColumns,
		ownerID, f.Title, f.Author, f.Status))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &b, nil
}

func (q *Queries) FindBookForUser(ctx context.Context, bookID, ownerID int64) (*models.Book, error) {
	b, err := scanBook(q.db.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1 AND user_id = $2`, bookID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &b, nil
}

func (q *Queries) UpdateBookFields(ctx context.Context, book *models.Book, patch models.BookPatch) (*models.Book, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return book, nil
	}

	set, args := setClause(cols)
	n := len(args)
	query := fmt.Sprintf(
		`UPDATE books SET %s
		 WHERE id = $%d AND user_id = $%d
		 RETURNING %s`, set, n+1, n+2, bookColumns)
	args = append(args, book.ID, book.UserID)

	b, err := scanBook(q.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &b, nil
}

func (q *Queries) DeleteBook(ctx context.Context, book *models.Book) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM books WHERE id = $1 AND user_id = $2`, book.ID, book.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
