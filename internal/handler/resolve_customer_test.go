package handler

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/billiard-club-pos/internal/repository"
)

var customerCols = []string{"id", "customer_code", "name", "phone", "remaining_minutes", "created_at", "updated_at"}

// hasPrefix matches a string argument by prefix, for generated codes whose
// tail is a timestamp.
type hasPrefix string

func (p hasPrefix) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, string(p))
}

func customerRow(id int64, code, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(customerCols).AddRow(id, code, name, nil, 0, now, now)
}

func TestResolveCustomerByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM customers WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(customerRow(5, "KH001", "Anh Tuấn"))

	customer, err := resolveCustomer(context.Background(), repository.NewCustomerRepo(db), 5, "")
	require.NoError(t, err)
	require.Equal(t, uint64(5), customer.ID)
	require.Equal(t, "KH001", customer.CustomerCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveCustomerUnknownIDProvisionsWalkIn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Unknown id is not an error: a placeholder customer is created so the
	// sale can proceed.
	mock.ExpectQuery("FROM customers WHERE id").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO customers").
		WithArgs(hasPrefix("KH"), hasPrefix("Khách "), nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("FROM customers WHERE id").
		WithArgs(uint64(7)).
		WillReturnRows(customerRow(7, "KH1750000000000", "Khách 1750000000000"))

	customer, err := resolveCustomer(context.Background(), repository.NewCustomerRepo(db), 99, "")
	require.NoError(t, err)
	require.Equal(t, uint64(7), customer.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveCustomerUnknownCodeProvisionsUnderThatCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// An unknown code becomes both the code and the name of a new customer.
	mock.ExpectQuery("FROM customers WHERE customer_code").
		WithArgs("KH-NEW").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO customers").
		WithArgs("KH-NEW", "KH-NEW", nil).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery("FROM customers WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(customerRow(3, "KH-NEW", "KH-NEW"))

	customer, err := resolveCustomer(context.Background(), repository.NewCustomerRepo(db), 0, "KH-NEW")
	require.NoError(t, err)
	require.Equal(t, "KH-NEW", customer.CustomerCode)
	require.Equal(t, "KH-NEW", customer.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveCustomerKnownCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM customers WHERE customer_code").
		WithArgs("KH001").
		WillReturnRows(customerRow(5, "KH001", "Anh Tuấn"))

	customer, err := resolveCustomer(context.Background(), repository.NewCustomerRepo(db), 0, "KH001")
	require.NoError(t, err)
	require.Equal(t, uint64(5), customer.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveCustomerWithoutIdentityProvisions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO customers").
		WithArgs(hasPrefix("KH"), hasPrefix("Khách "), nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("FROM customers WHERE id").
		WithArgs(uint64(11)).
		WillReturnRows(customerRow(11, "KH1750000000001", "Khách 1750000000001"))

	customer, err := resolveCustomer(context.Background(), repository.NewCustomerRepo(db), 0, "")
	require.NoError(t, err)
	require.Equal(t, uint64(11), customer.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
