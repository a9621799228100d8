package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"tower-climb/internal/ledger"
)

func TestRedemptionStore_Redeem(t *testing.T) {
	dbConn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer dbConn.Close()

	mock.ExpectExec("INSERT INTO purchase_redemptions").
		WithArgs("cs_123", 10000).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewRedemptionStore(dbConn)
	if err := store.Redeem("cs_123", 10000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedemptionStore_Redeem_Duplicate(t *testing.T) {
	dbConn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer dbConn.Close()

	mock.ExpectExec("INSERT INTO purchase_redemptions").
		WithArgs("cs_123", 10000).
		WillReturnError(&pq.Error{Code: "23505"})

	store := NewRedemptionStore(dbConn)
	if err := store.Redeem("cs_123", 10000); !errors.Is(err, ledger.ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedemptionStore_Redeem_OtherError(t *testing.T) {
	dbConn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer dbConn.Close()

	mock.ExpectExec("INSERT INTO purchase_redemptions").
		WithArgs("cs_123", 10000).
		WillReturnError(errors.New("connection reset"))

	store := NewRedemptionStore(dbConn)
	err = store.Redeem("cs_123", 10000)
	if err == nil || errors.Is(err, ledger.ErrDuplicateToken) {
		t.Fatalf("expected a non-duplicate error, got %v", err)
	}
}

func TestRedemptionStore_GetRedemption(t *testing.T) {
	dbConn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer dbConn.Close()

	mock.ExpectQuery("SELECT token, gold_amount FROM purchase_redemptions").
		WithArgs("cs_123").
		WillReturnRows(sqlmock.NewRows([]string{"token", "gold_amount"}).AddRow("cs_123", 10000))

	store := NewRedemptionStore(dbConn)
	red, err := store.GetRedemption("cs_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if red.Token != "cs_123" || red.GoldAmount != 10000 {
		t.Fatalf("unexpected redemption: %+v", red)
	}
}
