package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPostgres(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgres(&database.DB{Pool: mock}), mock
}

func TestPostgres_Get(t *testing.T) {
	store, mock := setupPostgres(t)

	mock.ExpectQuery(`SELECT value FROM kv_entries WHERE key`).
		WithArgs("firstLogins").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("[]"))

	v, ok, err := store.Get(context.Background(), "firstLogins")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetMissing(t *testing.T) {
	store, mock := setupPostgres(t)

	mock.ExpectQuery(`SELECT value FROM kv_entries`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, ok, err := store.Get(context.Background(), "nope")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetError(t *testing.T) {
	store, mock := setupPostgres(t)

	mock.ExpectQuery(`SELECT value FROM kv_entries`).
		WithArgs("k").
		WillReturnError(errors.New("connection refused"))

	_, _, err := store.Get(context.Background(), "k")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SetUpserts(t *testing.T) {
	store, mock := setupPostgres(t)

	mock.ExpectExec(`INSERT INTO kv_entries .+ ON CONFLICT \(key\) DO UPDATE`).
		WithArgs("selectedRole", "user").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Set(context.Background(), "selectedRole", "user"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Delete(t *testing.T) {
	store, mock := setupPostgres(t)

	mock.ExpectExec(`DELETE FROM kv_entries WHERE key`).
		WithArgs("selectedRole").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, store.Delete(context.Background(), "selectedRole"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_KeysEscapesPrefix(t *testing.T) {
	store, mock := setupPostgres(t)

	mock.ExpectQuery(`SELECT key FROM kv_entries WHERE key LIKE`).
		WithArgs(`hasLoggedIn\_%`).
		WillReturnRows(pgxmock.NewRows([]string{"key"}).AddRow("hasLoggedIn_a").AddRow("hasLoggedIn_b"))

	keys, err := store.Keys(context.Background(), "hasLoggedIn_")

	require.NoError(t, err)
	assert.Equal(t, []string{"hasLoggedIn_a", "hasLoggedIn_b"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}
