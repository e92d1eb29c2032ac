package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestCloseTxSecondCloseFindsNoOpenRental(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRentalRepo(db)
	ctx := context.Background()
	endAt := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	// First close transitions the open rental.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rentals SET end_at").
		WithArgs(endAt, 2.0, 120, 100000.0, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.CloseTx(ctx, tx, 42, endAt, 2.0, 120, 100000))
	require.NoError(t, tx.Commit())

	// The end_at IS NULL guard makes a second close touch zero rows, so the
	// rental stays immutable and the caller maps this to a 404.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rentals SET end_at").
		WithArgs(endAt, 2.0, 120, 100000.0, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	err = repo.CloseTx(ctx, tx, 42, endAt, 2.0, 120, 100000)
	require.ErrorIs(t, err, ErrNoActiveRental)
	require.NoError(t, tx.Rollback())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenByTableTxNoOpenRental(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRentalRepo(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM rentals").
		WithArgs(uint64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = repo.OpenByTableTx(ctx, tx, 3)
	require.ErrorIs(t, err, ErrNoActiveRental)
	require.NoError(t, tx.Rollback())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureTableFreeTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRentalRepo(db)
	ctx := context.Background()

	// Free table: the lock query finds nothing.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM rentals").
		WithArgs(uint64(1)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.EnsureTableFreeTx(ctx, tx, 1))
	require.NoError(t, tx.Rollback())

	// Occupied table: an open rental row exists and gets locked.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM rentals").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectRollback()

	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	err = repo.EnsureTableFreeTx(ctx, tx, 1)
	require.ErrorIs(t, err, ErrTableOccupied)
	require.NoError(t, tx.Rollback())

	require.NoError(t, mock.ExpectationsWereMet())
}
