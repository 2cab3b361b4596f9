package kvstore

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresStoreMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestPostgresStoreGet(t *testing.T) {
	store, mock := newPostgresStoreMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs("gwa_subjects").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":"s1"}]`))

	value, err := store.Get(context.Background(), "gwa_subjects")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"s1"}]`, string(value))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissing(t *testing.T) {
	store, mock := newPostgresStoreMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries")).
		WithArgs("gwa_semesters").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "gwa_semesters")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSetUpserts(t *testing.T) {
	store, mock := newPostgresStoreMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries (key, value, updated_at)")).
		WithArgs("gwa_autosave", "false", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), "gwa_autosave", []byte("false")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDelete(t *testing.T) {
	store, mock := newPostgresStoreMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE key = $1")).
		WithArgs("gwa_subjects").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), "gwa_subjects"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorePing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	store := NewPostgresStore(sqlx.NewDb(db, "postgres"))
	require.NoError(t, Ping(context.Background(), store))
	require.NoError(t, mock.ExpectationsWereMet())
}
