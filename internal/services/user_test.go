package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "email", "password_hash", "created_at", "updated_at"}

func setupUserService(t *testing.T) (*UserService, pgxmock.PgxPoolIface, *test.Hook) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	log, hook := test.NewNullLogger()
	svc := NewUserService(&database.DB{Pool: mock}, log)
	svc.bcryptCost = bcrypt.MinCost
	return svc, mock, hook
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestUserService_Create(t *testing.T) {
	svc, mock, _ := setupUserService(t)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("new@example.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(userID, "new@example.com", "hash", now, now))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	user, err := svc.Create(context.Background(), "  New@Example.com ", "secret1")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Create_RoleRowFailureDoesNotAbort(t *testing.T) {
	svc, mock, hook := setupUserService(t)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("new@example.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(userID, "new@example.com", "hash", now, now))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(userID).
		WillReturnError(&pgconn.PgError{Code: "42501"})

	user, err := svc.Create(context.Background(), "new@example.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "failed to create default role row", hook.LastEntry().Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Create_Validation(t *testing.T) {
	svc, mock, _ := setupUserService(t)

	_, err := svc.Create(context.Background(), "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Create(context.Background(), "a@b.co", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Create_EmailTaken(t *testing.T) {
	svc, mock, _ := setupUserService(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("dup@example.com", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Create(context.Background(), "dup@example.com", "secret1")

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Authenticate(t *testing.T) {
	svc, mock, _ := setupUserService(t)
	userID := uuid.New()
	now := time.Now()
	hash := hashPassword(t, "correct-horse")

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ana@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(userID, "ana@example.com", hash, now, now))

	user, err := svc.Authenticate(context.Background(), "ANA@example.com", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	svc, mock, _ := setupUserService(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ana@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(uuid.New(), "ana@example.com", hashPassword(t, "right"), now, now))

	_, err := svc.Authenticate(context.Background(), "ana@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Authenticate_UnknownUser(t *testing.T) {
	svc, mock, _ := setupUserService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Authenticate(context.Background(), "ghost@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, mock, _ := setupUserService(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_LookupIDByEmail(t *testing.T) {
	svc, mock, _ := setupUserService(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT get_user_id_by_email`).
		WithArgs("x@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"get_user_id_by_email"}).AddRow(&id))

	got, err := svc.LookupIDByEmail(context.Background(), "X@example.com")

	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_LookupIDByEmail_Unknown(t *testing.T) {
	svc, mock, _ := setupUserService(t)

	mock.ExpectQuery(`SELECT get_user_id_by_email`).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"get_user_id_by_email"}).AddRow(nil))

	_, err := svc.LookupIDByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DisplayName_FromProfile(t *testing.T) {
	svc, mock, _ := setupUserService(t)
	id := uuid.New()
	first, last := "Ada", "Lovelace"

	mock.ExpectQuery(`SELECT first_name, last_name, updated_at FROM user_profiles`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"first_name", "last_name", "updated_at"}).AddRow(&first, &last, time.Now()))

	name, err := svc.DisplayName(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_DisplayName_FallsBackToEmail(t *testing.T) {
	svc, mock, _ := setupUserService(t)
	id := uuid.New()
	email := "ada@example.com"

	mock.ExpectQuery(`FROM user_profiles`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT get_user_email_by_id`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"get_user_email_by_id"}).AddRow(&email))

	name, err := svc.DisplayName(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, email, name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetProfile_Error(t *testing.T) {
	svc, mock, _ := setupUserService(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM user_profiles`).
		WithArgs(id).
		WillReturnError(errors.New("timeout"))

	_, err := svc.GetProfile(context.Background(), id)

	assert.Error(t, err)
}

func TestUserService_UpdateProfile_TrimsAndNullsBlank(t *testing.T) {
	svc, mock, _ := setupUserService(t)
	id := uuid.New()
	first := "  Ada "
	blank := "   "
	trimmed := "Ada"

	mock.ExpectQuery(`INSERT INTO user_profiles`).
		WithArgs(id, &trimmed, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"first_name", "last_name", "updated_at"}).AddRow(&trimmed, nil, time.Now()))

	p, err := svc.UpdateProfile(context.Background(), id, &first, &blank)

	require.NoError(t, err)
	assert.Equal(t, "Ada", *p.FirstName)
	assert.Nil(t, p.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
