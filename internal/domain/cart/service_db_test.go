package cart_test

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/cart"
	"github.com/your-org/restaurant-backend/internal/domain/session"
	"github.com/your-org/restaurant-backend/internal/pkg/dbtest"
	"github.com/your-org/restaurant-backend/internal/realtime"
)

func newCartEnv(t *testing.T) (*gorm.DB, *cart.Service, *session.Session) {
	t.Helper()

	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)
	cfg := &config.Config{}
	log := dbtest.Logger()
	hub := realtime.NewHub(nil, log)
	t.Cleanup(hub.Close)

	sessSvc := session.NewService(db, cfg, hub, log)
	sess, err := sessSvc.OpenSession(context.Background(), &session.OpenRequest{TableID: fx.Table.ID, GuestCount: 2})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	return db, cart.NewService(db, cfg, hub, log), sess
}

func TestGetCartRecreatesDeletedCart(t *testing.T) {
	db, svc, sess := newCartEnv(t)

	// Confirmation deletes the cart row; the next access recreates it.
	if err := cart.DeleteForSession(db, sess.ID); err != nil {
		t.Fatalf("delete cart: %v", err)
	}

	snap, err := svc.GetCart(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if len(snap.Items) != 0 {
		t.Errorf("recreated cart has %d items, want 0", len(snap.Items))
	}

	var count int64
	db.Model(&cart.Cart{}).Where("session_id = ?", sess.ID).Count(&count)
	if count != 1 {
		t.Errorf("cart rows = %d, want 1", count)
	}
}

func TestGetCartJoinsConcurrentlyRecreatedCart(t *testing.T) {
	db, svc, sess := newCartEnv(t)

	if err := cart.DeleteForSession(db, sess.ID); err != nil {
		t.Fatalf("delete cart: %v", err)
	}

	// Slip another device's cart insert in just before ours, on the same
	// transaction connection, so our create hits the unique session_id index.
	armed := true
	err := db.Callback().Create().Before("gorm:create").Register("cart_recreate_race", func(tx *gorm.DB) {
		if !armed {
			return
		}
		if _, ok := tx.Statement.Dest.(*cart.Cart); !ok {
			return
		}
		armed = false
		now := time.Now().UTC()
		res := tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO carts (session_id, created_at, updated_at) VALUES (?, ?, ?)",
			sess.ID, now, now,
		)
		if res.Error != nil {
			t.Errorf("concurrent insert: %v", res.Error)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer db.Callback().Create().Remove("cart_recreate_race")

	snap, err := svc.GetCart(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("losing the recreation race must not fail the request, got %v", err)
	}
	if armed {
		t.Fatal("race was never triggered")
	}
	if len(snap.Items) != 0 {
		t.Errorf("cart has %d items, want 0", len(snap.Items))
	}

	// Both devices converged on one row.
	var count int64
	db.Model(&cart.Cart{}).Where("session_id = ?", sess.ID).Count(&count)
	if count != 1 {
		t.Errorf("cart rows = %d, want 1", count)
	}
}
