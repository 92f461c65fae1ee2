package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_FindCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("SELECT category FROM category_rules").
		WithArgs("MERCADO ABASTOS").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("proveedores"))

	got, err := s.FindCategory(context.Background(), "MERCADO ABASTOS")
	require.NoError(t, err)
	assert.Equal(t, "proveedores", got)

	mock.ExpectQuery("SELECT category FROM category_rules").
		WithArgs("TPA VENDAS").
		WillReturnRows(sqlmock.NewRows([]string{"category"}))

	got, err = s.FindCategory(context.Background(), "TPA VENDAS")
	require.NoError(t, err)
	assert.Empty(t, got)

	mock.ExpectQuery("SELECT category FROM category_rules").
		WillReturnError(errors.New("connection reset"))

	_, err = s.FindCategory(context.Background(), "GAS")
	assert.ErrorContains(t, err, "finding category")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateRule(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO category_rules").
		WithArgs("PANADERIA", "proveedores").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, New(db).CreateRule(context.Background(), "PANADERIA", "proveedores"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
