package pos

import (
	"context"
	"errors"
	"testing"

	"pockettill/backend/internal/domain"
)

func TestReceiveStock(t *testing.T) {
	s := newTestSession(t)
	coffee := productBySKU(t, s, "DRK001")
	ctx := context.Background()

	updated, err := s.ReceiveStock(ctx, domain.ReceiveStockRequest{ProductID: coffee.ID, Qty: 12, Note: "morning delivery"})
	if err != nil {
		t.Fatalf("ReceiveStock: %v", err)
	}
	if updated.Stock != coffee.Stock+12 {
		t.Fatalf("stock = %d, want %d", updated.Stock, coffee.Stock+12)
	}

	ops := s.InventoryOps()
	op := ops[len(ops)-1]
	if op.Type != domain.InventoryOpReceive || op.QtyChange != 12 || op.Note != "morning delivery" {
		t.Fatalf("receive op = %+v", op)
	}
}

func TestReceiveStockValidation(t *testing.T) {
	s := newTestSession(t)
	coffee := productBySKU(t, s, "DRK001")
	ctx := context.Background()

	if _, err := s.ReceiveStock(ctx, domain.ReceiveStockRequest{ProductID: "missing", Qty: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := s.ReceiveStock(ctx, domain.ReceiveStockRequest{ProductID: coffee.ID, Qty: 0}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestRecordLossWritesOffOneUnit(t *testing.T) {
	s := newTestSession(t)
	coffee := productBySKU(t, s, "DRK001")
	ctx := context.Background()

	updated, err := s.RecordLoss(ctx, domain.RecordLossRequest{ProductID: coffee.ID})
	if err != nil {
		t.Fatalf("RecordLoss: %v", err)
	}
	if updated.Stock != coffee.Stock-1 {
		t.Fatalf("stock = %d, want %d", updated.Stock, coffee.Stock-1)
	}

	ops := s.InventoryOps()
	op := ops[len(ops)-1]
	if op.Type != domain.InventoryOpLoss || op.QtyChange != -1 {
		t.Fatalf("loss op = %+v", op)
	}
}

func TestCountStockRecordsDelta(t *testing.T) {
	s := newTestSession(t)
	coffee := productBySKU(t, s, "DRK001")
	ctx := context.Background()

	updated, err := s.CountStock(ctx, domain.CountStockRequest{ProductID: coffee.ID, CountedQty: 41})
	if err != nil {
		t.Fatalf("CountStock: %v", err)
	}
	if updated.Stock != 41 {
		t.Fatalf("stock = %d, want 41", updated.Stock)
	}

	ops := s.InventoryOps()
	op := ops[len(ops)-1]
	if op.Type != domain.InventoryOpCount || op.QtyChange != 41-coffee.Stock {
		t.Fatalf("count op = %+v", op)
	}

	if _, err := s.CountStock(ctx, domain.CountStockRequest{ProductID: coffee.ID, CountedQty: -1}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

// Stock must always equal opening stock plus the sum of all op deltas
// for that product, because every stock mutation appends a matching op.
func TestStockMatchesInventoryLedger(t *testing.T) {
	s := newTestSession(t)
	sandwich := productBySKU(t, s, "SND001")
	ctx := context.Background()

	mustOpenShift(t, s, 0)
	mustAdd(t, s, sandwich.ID)
	mustAdd(t, s, sandwich.ID)
	result, err := s.Checkout(ctx, domain.CheckoutRequest{CashCents: 2400})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if _, err := s.ReceiveStock(ctx, domain.ReceiveStockRequest{ProductID: sandwich.ID, Qty: 5}); err != nil {
		t.Fatalf("ReceiveStock: %v", err)
	}
	if _, err := s.RecordLoss(ctx, domain.RecordLossRequest{ProductID: sandwich.ID}); err != nil {
		t.Fatalf("RecordLoss: %v", err)
	}
	if _, err := s.Refund(ctx, domain.RefundRequest{TransactionID: result.Transaction.ID, LineItemID: result.Transaction.Items[0].ID, Qty: 1}); err != nil {
		t.Fatalf("Refund: %v", err)
	}

	var delta int
	for _, op := range s.InventoryOps() {
		if op.ProductID == sandwich.ID {
			delta += op.QtyChange
		}
	}
	if got := productBySKU(t, s, "SND001").Stock; got != sandwich.Stock+delta {
		t.Fatalf("stock %d diverged from ledger %d + %d", got, sandwich.Stock, delta)
	}
}
