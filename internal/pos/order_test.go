package pos

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pockettill/backend/internal/domain"
)

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	s := newTestSession(t)
	_, err := s.CreateOrder(context.Background(), domain.OrderCreateRequest{})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCreateOrderPayNowProducesTransaction(t *testing.T) {
	s := newTestSession(t)
	sandwich := productBySKU(t, s, "SND001")
	ctx := context.Background()

	shift := mustOpenShift(t, s, 0)
	mustAdd(t, s, sandwich.ID)

	order, err := s.CreateOrder(ctx, domain.OrderCreateRequest{PayNow: true, Notes: "table 4"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !order.Paid || order.Status != domain.OrderStatusCompleted {
		t.Fatalf("payNow order not completed: %+v", order)
	}
	if order.ShiftID != shift.ID {
		t.Fatalf("order shiftID = %q, want %q", order.ShiftID, shift.ID)
	}

	txs := s.Transactions()
	if len(txs) != 1 {
		t.Fatalf("expected one transaction, got %d", len(txs))
	}
	tx := txs[0]
	if tx.Notes != "Order payNow:"+order.ID {
		t.Fatalf("transaction notes = %q", tx.Notes)
	}
	if len(tx.Splits) != 1 || tx.Splits[0].Method != domain.PayMethodCard || tx.Splits[0].AmountCents != 1200 {
		t.Fatalf("payNow split = %+v, want full total on card", tx.Splits)
	}

	after := productBySKU(t, s, "SND001")
	if after.Stock != sandwich.Stock-1 {
		t.Fatalf("stock = %d, want %d", after.Stock, sandwich.Stock-1)
	}
	if len(s.Cart().Lines) != 0 {
		t.Fatalf("cart not cleared after order")
	}
}

func TestCreateOrderPickupStaysPending(t *testing.T) {
	s := newTestSession(t)
	sandwich := productBySKU(t, s, "SND001")
	ctx := context.Background()

	mustAdd(t, s, sandwich.ID)
	order, err := s.CreateOrder(ctx, domain.OrderCreateRequest{PayNow: false})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Paid || order.Status != domain.OrderStatusPending {
		t.Fatalf("pickup order should stay pending: %+v", order)
	}
	if order.ShiftID != "" {
		t.Fatalf("order without open shift got shiftID %q", order.ShiftID)
	}

	// No transaction and no stock movement until finalize.
	if len(s.Transactions()) != 0 {
		t.Fatalf("pending order produced a transaction")
	}
	after := productBySKU(t, s, "SND001")
	if after.Stock != sandwich.Stock {
		t.Fatalf("pending order moved stock: %d -> %d", sandwich.Stock, after.Stock)
	}
}

func TestFinalizePickupInsufficientPayment(t *testing.T) {
	s := newTestSession(t)
	sandwich := productBySKU(t, s, "SND001")
	ctx := context.Background()

	mustAdd(t, s, sandwich.ID)
	order, err := s.CreateOrder(ctx, domain.OrderCreateRequest{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// 5.00 + 5.00 against a 12.00 order.
	_, err = s.FinalizePickup(ctx, order.ID, domain.PickupRequest{CashCents: 500, CardCents: 500})
	if !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("expected ErrInsufficientPayment, got %v", err)
	}

	got, _ := findOrder(s, order.ID)
	if got.Paid {
		t.Fatalf("rejected pickup still marked order paid")
	}
}

func TestFinalizePickupCompletesOrder(t *testing.T) {
	s := newTestSession(t)
	sandwich := productBySKU(t, s, "SND001")
	ctx := context.Background()

	mustAdd(t, s, sandwich.ID)
	order, err := s.CreateOrder(ctx, domain.OrderCreateRequest{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	done, err := s.FinalizePickup(ctx, order.ID, domain.PickupRequest{CashCents: 1200})
	if err != nil {
		t.Fatalf("FinalizePickup: %v", err)
	}
	if !done.Paid || done.Status != domain.OrderStatusCompleted {
		t.Fatalf("order not completed: %+v", done)
	}

	txs := s.Transactions()
	if len(txs) != 1 {
		t.Fatalf("expected pickup transaction")
	}
	tx := txs[0]
	if tx.Notes != "Order pickup:"+order.ID {
		t.Fatalf("transaction notes = %q", tx.Notes)
	}
	for _, it := range tx.Items {
		if it.DiscountCents != 0 {
			t.Fatalf("pickup transaction lines carry no discount: %+v", it)
		}
	}

	after := productBySKU(t, s, "SND001")
	if after.Stock != sandwich.Stock-1 {
		t.Fatalf("stock = %d, want %d", after.Stock, sandwich.Stock-1)
	}
	op := s.InventoryOps()[len(s.InventoryOps())-1]
	if !strings.HasPrefix(op.Note, "OrderPickup ") || op.QtyChange != -1 {
		t.Fatalf("unexpected pickup op: %+v", op)
	}
}

func TestFinalizePickupIsOneWay(t *testing.T) {
	s := newTestSession(t)
	sandwich := productBySKU(t, s, "SND001")
	ctx := context.Background()

	mustAdd(t, s, sandwich.ID)
	order, err := s.CreateOrder(ctx, domain.OrderCreateRequest{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := s.FinalizePickup(ctx, order.ID, domain.PickupRequest{CashCents: 1200}); err != nil {
		t.Fatalf("FinalizePickup: %v", err)
	}

	// Second finalize is rejected by the already-paid guard.
	if _, err := s.FinalizePickup(ctx, order.ID, domain.PickupRequest{CashCents: 1200}); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("expected ErrOrderNotPending, got %v", err)
	}
}

func TestFinalizePickupRejectsPayNowAndUnknownOrders(t *testing.T) {
	s := newTestSession(t)
	sandwich := productBySKU(t, s, "SND001")
	ctx := context.Background()

	mustOpenShift(t, s, 0)
	mustAdd(t, s, sandwich.ID)
	order, err := s.CreateOrder(ctx, domain.OrderCreateRequest{PayNow: true})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if _, err := s.FinalizePickup(ctx, order.ID, domain.PickupRequest{CashCents: 1200}); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("expected ErrOrderNotPending for payNow order, got %v", err)
	}
	if _, err := s.FinalizePickup(ctx, "missing", domain.PickupRequest{}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func findOrder(s *Session, id string) (domain.Order, bool) {
	for _, o := range s.Orders() {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}
