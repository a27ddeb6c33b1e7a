package gormstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KANBAN_CRM_BACK-END/internal/models"
	"KANBAN_CRM_BACK-END/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindUserByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	u, err := s.CreateUser(ctx, "a@x.com", "hash")
	require.NoError(t, err)
	assert.Positive(t, u.ID)

	got, err := s.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = s.CreateUser(ctx, "a@x.com", "other")
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	// emails are case-sensitive as stored
	_, err = s.CreateUser(ctx, "A@x.com", "hash")
	assert.NoError(t, err)
}

func TestRecords_OwnerScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice@x.com", "h")
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "bob@x.com", "h")
	require.NoError(t, err)

	rec, err := s.CreateRecord(ctx, alice.ID, models.RecordFields{Name: "Acme", Status: "lead", Organization: strPtr("Acme Inc")})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, rec.UserID)

	list, err := s.ListRecordsForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	_, err = s.FindRecordForUser(ctx, rec.ID, bob.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	found, err := s.FindRecordForUser(ctx, rec.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", *found.Organization)

	// an update or delete addressed with a foreign owner touches nothing
	status := "won"
	_, err = s.UpdateRecordFields(ctx, &models.Record{ID: rec.ID, UserID: bob.ID}, models.RecordPatch{Status: &status})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.DeleteRecord(ctx, &models.Record{ID: rec.ID, UserID: bob.ID}), repository.ErrNotFound)

	list, err = s.ListRecordsForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "lead", list[0].Status)
}

func TestUpdateRecordFields_Partial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "a@x.com", "h")
	require.NoError(t, err)
	rec, err := s.CreateRecord(ctx, u.ID, models.RecordFields{Name: "X", Status: "open", Organization: strPtr("Acme")})
	require.NoError(t, err)

	status := "closed"
	updated, err := s.UpdateRecordFields(ctx, rec, models.RecordPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "closed", updated.Status)
	assert.Equal(t, "X", updated.Name)
	assert.Equal(t, "Acme", *updated.Organization)
	assert.Equal(t, u.ID, updated.UserID)
}

func TestCreateRecord_UnknownOwnerRejected(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateRecord(context.Background(), 999, models.RecordFields{Name: "X", Status: "open"})
	assert.Error(t, err)
}

func TestDeleteRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "a@x.com", "h")
	require.NoError(t, err)
	rec, err := s.CreateRecord(ctx, u.ID, models.RecordFields{Name: "X", Status: "open"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord(ctx, rec))
	assert.ErrorIs(t, s.DeleteRecord(ctx, rec), repository.ErrNotFound)
}

func TestBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "a@x.com", "h")
	require.NoError(t, err)

	b, err := s.CreateBook(ctx, u.ID, models.BookFields{Title: "Dune", Author: "Herbert", Status: "to-read"})
	require.NoError(t, err)

	status := "done"
	b, err = s.UpdateBookFields(ctx, b, models.BookPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "done", b.Status)
	assert.Equal(t, "Dune", b.Title)

	books, err := s.ListBooksForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	require.NoError(t, s.DeleteBook(ctx, b))
	_, err = s.FindBookForUser(ctx, b.ID, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithTx_Rollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		if _, err := tx.CreateUser(ctx, "a@x.com", "h"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindUserByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
