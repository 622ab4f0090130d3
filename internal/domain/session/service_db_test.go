package session_test

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/session"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/pkg/dbtest"
	"github.com/your-org/restaurant-backend/internal/realtime"
)

func newSessionEnv(t *testing.T) (*gorm.DB, *session.Service, *dbtest.Fixture) {
	t.Helper()

	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)
	log := dbtest.Logger()
	hub := realtime.NewHub(nil, log)
	t.Cleanup(hub.Close)

	return db, session.NewService(db, &config.Config{}, hub, log), fx
}

func TestOpenSessionSecondOpenConflicts(t *testing.T) {
	_, svc, fx := newSessionEnv(t)
	ctx := context.Background()
	req := &session.OpenRequest{TableID: fx.Table.ID, GuestCount: 2}

	if _, err := svc.OpenSession(ctx, req); err != nil {
		t.Fatalf("first open: %v", err)
	}

	_, err := svc.OpenSession(ctx, req)
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("second open on occupied table: kind = %s, want conflict", apperrors.KindOf(err))
	}
}

func TestConcurrentOpensYieldOneWinner(t *testing.T) {
	_, svc, fx := newSessionEnv(t)
	req := &session.OpenRequest{TableID: fx.Table.ID, GuestCount: 1}

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.OpenSession(context.Background(), req)
			errs <- err
		}()
	}

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			wins++
		case apperrors.KindOf(err) == apperrors.KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Errorf("wins = %d, conflicts = %d, want exactly one of each", wins, conflicts)
	}
}

func TestJoinSessionIsIdempotent(t *testing.T) {
	_, svc, fx := newSessionEnv(t)
	ctx := context.Background()
	req := &session.OpenRequest{TableID: fx.Table.ID, GuestCount: 2}

	first, err := svc.JoinSession(ctx, req)
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	second, err := svc.JoinSession(ctx, req)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("joined session %s, want the existing %s", second.ID, first.ID)
	}
}

func TestCloseSessionFreesTable(t *testing.T) {
	db, svc, fx := newSessionEnv(t)
	ctx := context.Background()
	req := &session.OpenRequest{TableID: fx.Table.ID, GuestCount: 2}

	sess, err := svc.OpenSession(ctx, req)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	closed, err := svc.CloseSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != session.StatusClosed || closed.ClosedAt == nil || closed.TableID != nil {
		t.Errorf("closed session = %+v, want CLOSED, detached, with closed_at", closed)
	}

	// Closed sessions stay on record.
	var count int64
	db.Model(&session.Session{}).Where("id = ?", sess.ID).Count(&count)
	if count != 1 {
		t.Errorf("session rows = %d, want 1", count)
	}

	// The table accepts a new party.
	if _, err := svc.OpenSession(ctx, req); err != nil {
		t.Errorf("reopen after close: %v", err)
	}

	// Closing twice is a conflict.
	_, err = svc.CloseSession(ctx, sess.ID)
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("double close: kind = %s, want conflict", apperrors.KindOf(err))
	}
}
