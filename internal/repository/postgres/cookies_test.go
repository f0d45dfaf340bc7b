package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
	"github.com/CodyErekson/kitchenKiosk/internal/repository"
)

func TestRememberCookieRepository_Insert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRememberCookieRepository(mock)

	cookie := domain.RememberCookie{UserID: 3, Value: "2b7c5ab4d9f0e1c3a6885f2e4d7b9c01"}

	mock.ExpectExec(`INSERT INTO kiosk\.remember_cookies`).
		WithArgs(cookie.UserID, cookie.Value).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Insert(context.Background(), cookie); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRememberCookieRepository_DeleteAndReturn(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRememberCookieRepository(mock)

	mock.ExpectQuery(`DELETE FROM kiosk\.remember_cookies rc`).
		WithArgs("cody", "2b7c5ab4d9f0e1c3a6885f2e4d7b9c01").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(int64(3)))

	userID, err := repo.DeleteAndReturn(context.Background(), "cody", "2b7c5ab4d9f0e1c3a6885f2e4d7b9c01")
	if err != nil {
		t.Fatalf("DeleteAndReturn returned error: %v", err)
	}
	if userID != 3 {
		t.Fatalf("expected user id 3, got %d", userID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRememberCookieRepository_DeleteAndReturnMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRememberCookieRepository(mock)

	mock.ExpectQuery(`DELETE FROM kiosk\.remember_cookies rc`).
		WithArgs("cody", "spent").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}))

	if _, err := repo.DeleteAndReturn(context.Background(), "cody", "spent"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRememberCookieRepository_DeleteByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRememberCookieRepository(mock)

	mock.ExpectExec(`DELETE FROM kiosk\.remember_cookies rc USING kiosk\.credentials c`).
		WithArgs("cody").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	count, err := repo.DeleteByUsername(context.Background(), "cody")
	if err != nil {
		t.Fatalf("DeleteByUsername returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 deleted rows, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
