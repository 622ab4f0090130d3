package order_test

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/cart"
	"github.com/your-org/restaurant-backend/internal/domain/order"
	"github.com/your-org/restaurant-backend/internal/domain/session"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/pkg/dbtest"
	"github.com/your-org/restaurant-backend/internal/realtime"
)

type orderEnv struct {
	db      *gorm.DB
	fx      *dbtest.Fixture
	session *session.Service
	cart    *cart.Service
	order   *order.Service
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()

	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)
	cfg := &config.Config{}
	log := dbtest.Logger()
	hub := realtime.NewHub(nil, log)
	t.Cleanup(hub.Close)

	return &orderEnv{
		db:      db,
		fx:      fx,
		session: session.NewService(db, cfg, hub, log),
		cart:    cart.NewService(db, cfg, hub, log),
		order:   order.NewService(db, cfg, hub, log),
	}
}

// openWithItems opens a session and adds one cart line per given quantity.
func (e *orderEnv) openWithItems(t *testing.T, quantities ...int) *session.Session {
	t.Helper()
	ctx := context.Background()

	sess, err := e.session.OpenSession(ctx, &session.OpenRequest{TableID: e.fx.Table.ID, GuestCount: 2})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	for _, q := range quantities {
		_, err := e.cart.AddItem(ctx, sess.ID, &cart.AddItemRequest{MenuItemID: e.fx.Item.ID, Quantity: q})
		if err != nil {
			t.Fatalf("add cart item: %v", err)
		}
	}
	return sess
}

func TestConfirmCartCreatesOneChunkAndEmptiesCart(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	sess := env.openWithItems(t, 2, 1)

	chunk, err := env.order.ConfirmCart(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ConfirmCart returned error: %v", err)
	}
	if chunk.Status != order.ChunkPending {
		t.Errorf("chunk status = %s, want PENDING", chunk.Status)
	}
	if len(chunk.Items) != 2 {
		t.Fatalf("chunk has %d items, want 2 (one per cart line)", len(chunk.Items))
	}

	var chunkCount int64
	env.db.Model(&order.Chunk{}).Where("order_id = ?", chunk.OrderID).Count(&chunkCount)
	if chunkCount != 1 {
		t.Errorf("chunks = %d, want exactly 1", chunkCount)
	}

	var cartCount int64
	env.db.Model(&cart.Cart{}).Where("session_id = ?", sess.ID).Count(&cartCount)
	if cartCount != 0 {
		t.Errorf("cart rows after confirmation = %d, want 0", cartCount)
	}

	// 3 x 10.10 at 7% tax and 10% service charge.
	ord, err := env.order.GetOrder(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetOrder returned error: %v", err)
	}
	if !ord.SubTotal.Equal(dbtest.Dec("30.30")) {
		t.Errorf("sub total = %s, want 30.30", ord.SubTotal)
	}
	if !ord.TaxAmount.Equal(dbtest.Dec("2.12")) {
		t.Errorf("tax = %s, want 2.12", ord.TaxAmount)
	}
	if !ord.ServiceChargeAmount.Equal(dbtest.Dec("3.03")) {
		t.Errorf("service charge = %s, want 3.03", ord.ServiceChargeAmount)
	}
	if !ord.GrandTotal.Equal(dbtest.Dec("35.45")) {
		t.Errorf("grand total = %s, want 35.45", ord.GrandTotal)
	}
}

func TestConfirmEmptyCartRejected(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	sess := env.openWithItems(t)

	_, err := env.order.ConfirmCart(ctx, sess.ID)
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("confirming an empty cart: kind = %s, want validation", apperrors.KindOf(err))
	}

	// After a successful confirmation the cart is gone; confirming again
	// without new items is the same rejection.
	if _, err := env.cart.AddItem(ctx, sess.ID, &cart.AddItemRequest{MenuItemID: env.fx.Item.ID, Quantity: 1}); err != nil {
		t.Fatalf("add cart item: %v", err)
	}
	if _, err := env.order.ConfirmCart(ctx, sess.ID); err != nil {
		t.Fatalf("ConfirmCart returned error: %v", err)
	}
	_, err = env.order.ConfirmCart(ctx, sess.ID)
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("re-confirming: kind = %s, want validation", apperrors.KindOf(err))
	}
}

func TestConfirmAccumulatesChunksIntoTotals(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	sess := env.openWithItems(t, 1)

	if _, err := env.order.ConfirmCart(ctx, sess.ID); err != nil {
		t.Fatalf("first ConfirmCart: %v", err)
	}
	if _, err := env.cart.AddItem(ctx, sess.ID, &cart.AddItemRequest{MenuItemID: env.fx.Item.ID, Quantity: 1}); err != nil {
		t.Fatalf("add cart item: %v", err)
	}
	if _, err := env.order.ConfirmCart(ctx, sess.ID); err != nil {
		t.Fatalf("second ConfirmCart: %v", err)
	}

	ord, err := env.order.GetOrder(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetOrder returned error: %v", err)
	}
	if len(ord.Chunks) != 2 {
		t.Errorf("chunks = %d, want 2", len(ord.Chunks))
	}
	if !ord.SubTotal.Equal(dbtest.Dec("20.20")) {
		t.Errorf("sub total over both chunks = %s, want 20.20", ord.SubTotal)
	}
}

func TestPayOrderClosesSessionAtomically(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	sess := env.openWithItems(t, 1)

	if _, err := env.order.ConfirmCart(ctx, sess.ID); err != nil {
		t.Fatalf("ConfirmCart returned error: %v", err)
	}

	ord, err := env.order.PayOrder(ctx, sess.ID)
	if err != nil {
		t.Fatalf("PayOrder returned error: %v", err)
	}
	if ord.Status != order.StatusPaid {
		t.Errorf("order status = %s, want PAID", ord.Status)
	}
	if ord.PaidAt == nil {
		t.Error("paid_at not set")
	}

	var got session.Session
	if err := env.db.First(&got, "id = ?", sess.ID).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if got.Status != session.StatusClosed {
		t.Errorf("session status = %s, want CLOSED", got.Status)
	}
	if got.TableID != nil {
		t.Errorf("session still attached to table %d", *got.TableID)
	}
	if got.ClosedAt == nil {
		t.Error("closed_at not set")
	}

	// Settlement freed the table for the next party.
	if _, err := env.session.OpenSession(ctx, &session.OpenRequest{TableID: env.fx.Table.ID, GuestCount: 1}); err != nil {
		t.Errorf("reopening the settled table: %v", err)
	}

	// Paying twice is a conflict.
	_, err = env.order.PayOrder(ctx, sess.ID)
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("double pay: kind = %s, want conflict", apperrors.KindOf(err))
	}
}
