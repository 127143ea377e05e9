package vocab

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src, err := NewDB(DriverSQLite, filepath.Join(dir, "src.db"))
	require.NoError(t, err)
	defer src.Close()
	dst, err := NewDB(DriverSQLite, filepath.Join(dir, "dst.db"))
	require.NoError(t, err)
	defer dst.Close()

	srcRepo := NewRepository(src)
	for _, q := range []string{"pivot", "unagi", "moo point"} {
		require.NoError(t, srcRepo.Create(ctx, &Lookup{Query: q, Explains: []string{q + "!"}, Season: 5}))
	}
	require.NoError(t, NewRepository(dst).Create(ctx, &Lookup{Query: "stale"}))

	n, err := Copy(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := NewRepository(dst).List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	want, err := srcRepo.List(ctx, ListOptions{})
	require.NoError(t, err)
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Query, got[i].Query)
		assert.Equal(t, want[i].Explains, got[i].Explains)
	}

	// re-running is idempotent
	n, err = Copy(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestCopyToPostgresResetsSequence(t *testing.T) {
	ctx := context.Background()

	src, err := NewDB(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, NewRepository(src).Create(ctx, &Lookup{Query: "pivot", Season: 5, Episode: 16}))

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	dst := &DB{DB: mockDB, driver: DriverPostgres}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lookups`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO lookups`)).
		ExpectExec().
		WithArgs(int64(1), "pivot", "", "[]", "", int64(5), int64(16), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT setval('lookups_id_seq'`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM lookups`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	n, err := Copy(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyRollsBackOnCountMismatch(t *testing.T) {
	ctx := context.Background()

	src, err := NewDB(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer src.Close()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	dst := &DB{DB: mockDB, driver: DriverPostgres}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lookups`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO lookups`))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT setval`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM lookups`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	_, err = Copy(ctx, src, dst)
	assert.ErrorContains(t, err, "row count mismatch")
	assert.NoError(t, mock.ExpectationsWereMet())
}
