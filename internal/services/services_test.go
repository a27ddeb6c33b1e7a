package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"KANBAN_CRM_BACK-END/internal/auth"
	"KANBAN_CRM_BACK-END/internal/logging"
	"KANBAN_CRM_BACK-END/internal/models"
	"KANBAN_CRM_BACK-END/internal/repository"
	"KANBAN_CRM_BACK-END/internal/repository/gormstore"
)

const testSecret = "services-test-secret-0123456789ab"

type fixture struct {
	store   *gormstore.Store
	tokens  *auth.TokenIssuer
	auth    *AuthService
	records *RecordService
	books   *BookService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := gormstore.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := logging.Discard()
	tokens := auth.NewTokenIssuer(testSecret, time.Hour)
	authSvc, err := NewAuthService(store, auth.NewPasswordHasher(bcrypt.MinCost), tokens, logger)
	require.NoError(t, err)

	return &fixture{
		store:   store,
		tokens:  tokens,
		auth:    authSvc,
		records: NewRecordService(store, logger),
		books:   NewBookService(store, logger),
	}
}

func (f *fixture) identity(t *testing.T, email string) auth.Identity {
	t.Helper()
	u, err := f.auth.Register(context.Background(), email, "pw")
	require.NoError(t, err)
	return auth.Identity{UserID: u.ID, Email: u.Email}
}

func strPtr(s string) *string { return &s }

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, "a@x.com", "p")
	require.NoError(t, err)
	assert.NotEqual(t, "p", user.PasswordHash)

	token, err := f.auth.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)

	id, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "a@x.com", id.Email)
}

func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.auth.Register(ctx, "a@x.com", "p")
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, "a@x.com", "different")
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)

	u, err := f.store.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, u.ID)
}

func TestRegister_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.auth.Register(ctx, "race@x.com", "p")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	}
	assert.Equal(t, 1, successes)
}

type racingUsers struct{}

func (racingUsers) FindUserByEmail(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (racingUsers) CreateUser(context.Context, string, string) (*models.User, error) {
	return nil, repository.ErrDuplicateEmail
}

func TestRegister_UniqueConstraintRaceIsReportedAsDuplicate(t *testing.T) {
	svc, err := NewAuthService(racingUsers{}, auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewTokenIssuer(testSecret, time.Hour), logging.Discard())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@x.com", "p")
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.identity(t, "a@x.com")

	_, wrongPassword := f.auth.Login(ctx, "a@x.com", "nope")
	_, unknownEmail := f.auth.Login(ctx, "ghost@x.com", "pw")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestRecords_IsolationBetweenUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.identity(t, "alice@x.com")
	bob := f.identity(t, "bob@x.com")

	rec, err := f.records.Create(ctx, alice, models.RecordFields{Name: "Acme", Status: "lead"})
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, rec.UserID)

	bobs, err := f.records.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	status := "won"
	_, err = f.records.Update(ctx, bob, rec.ID, models.RecordPatch{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.records.Delete(ctx, bob, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// missing and foreign records look the same
	_, err = f.records.Update(ctx, bob, rec.ID+1000, models.RecordPatch{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)

	alices, err := f.records.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, "lead", alices[0].Status)
}

func TestRecords_PartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.identity(t, "a@x.com")

	rec, err := f.records.Create(ctx, owner, models.RecordFields{Name: "X", Status: "open", Organization: strPtr("Acme")})
	require.NoError(t, err)

	status := "closed"
	updated, err := f.records.Update(ctx, owner, rec.ID, models.RecordPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "closed", updated.Status)
	assert.Equal(t, "X", updated.Name)
	assert.Equal(t, "Acme", *updated.Organization)
	assert.Equal(t, owner.UserID, updated.UserID)
}

func TestRecords_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.identity(t, "a@x.com")

	rec, err := f.records.Create(ctx, owner, models.RecordFields{Name: "X", Status: "open"})
	require.NoError(t, err)

	require.NoError(t, f.records.Delete(ctx, owner, rec.ID))
	assert.ErrorIs(t, f.records.Delete(ctx, owner, rec.ID), ErrNotFound)
}

func TestBooks_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.identity(t, "a@x.com")
	other := f.identity(t, "b@x.com")

	book, err := f.books.Create(ctx, owner, models.BookFields{Title: "Dune", Author: "Herbert", Status: "to-read"})
	require.NoError(t, err)

	status := "done"
	_, err = f.books.Update(ctx, other, book.ID, models.BookPatch{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := f.books.Update(ctx, owner, book.ID, models.BookPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "done", updated.Status)

	list, err := f.books.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, f.books.Delete(ctx, other, book.ID), ErrNotFound)
	require.NoError(t, f.books.Delete(ctx, owner, book.ID))
}

// failingStore fails every call it overrides; anything else panics via the nil embed.
type failingStore struct {
	repository.Store
	err error
}

func (s failingStore) ListRecordsForUser(context.Context, int64) ([]models.Record, error) {
	return nil, s.err
}

func (s failingStore) FindRecordForUser(context.Context, int64, int64) (*models.Record, error) {
	return nil, s.err
}

func (s failingStore) WithTx(ctx context.Context, fn func(context.Context, repository.Repositories) error) error {
	return fn(ctx, s)
}

func TestRecords_StorageFailureIsOpaque(t *testing.T) {
	svc := NewRecordService(failingStore{err: errors.New("connection reset by peer")}, logging.Discard())
	id := auth.Identity{UserID: 1, Email: "a@x.com"}

	_, err := svc.List(context.Background(), id)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotContains(t, err.Error(), "connection reset")

	err = svc.Delete(context.Background(), id, 1)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrNotFound)
}
