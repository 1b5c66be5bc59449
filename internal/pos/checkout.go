package pos

import (
	"context"
	"fmt"

	"pockettill/backend/internal/domain"
	"pockettill/backend/internal/xid"
)

// Checkout turns the cart into an immutable transaction. Splits record
// the tendered cash and card amounts verbatim; change is informational
// and never subtracted from the cash split. Payment sufficiency is not
// checked here, only at pickup finalize.
func (s *Session) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift := s.openShift()
	if shift == nil {
		return domain.CheckoutResult{}, ErrNoOpenShift
	}
	if len(s.cart) == 0 {
		return domain.CheckoutResult{}, ErrEmptyCart
	}
	if req.CashCents < 0 || req.CardCents < 0 {
		return domain.CheckoutResult{}, ErrInvalidAmount
	}

	total := s.subtotalAfter()
	tx := domain.Transaction{
		ID:         s.newID("tx"),
		Date:       s.now(),
		Items:      s.cartSnapshot(),
		Splits:     buildSplits(req.CashCents, req.CardCents),
		TotalCents: total,
		Notes:      fmt.Sprintf("shift:%s", shift.ID),
		ShiftID:    shift.ID,
	}
	s.prependTransaction(tx)

	for _, it := range tx.Items {
		s.decrementStock(it.ProductID, it.Qty, it.IsService, fmt.Sprintf("Sale %s", xid.Short(tx.ID)))
	}

	s.cart = nil
	if err := s.persist(ctx); err != nil {
		return domain.CheckoutResult{}, err
	}

	s.metrics.Checkouts.Inc()
	if total > 0 {
		s.metrics.SalesCents.Add(float64(total))
	}
	s.log.Info().
		Str("transaction_id", tx.ID).
		Str("shift_id", shift.ID).
		Int64("total_cents", total).
		Msg("checkout complete")

	remainingDue := total - req.CardCents
	if remainingDue < 0 {
		remainingDue = 0
	}
	change := req.CashCents - remainingDue
	if change < 0 {
		change = 0
	}
	return domain.CheckoutResult{
		Transaction:       tx,
		RemainingDueCents: remainingDue,
		ChangeCents:       change,
	}, nil
}

func (s *Session) cartSnapshot() []domain.TransactionLine {
	items := make([]domain.TransactionLine, 0, len(s.cart))
	for _, line := range s.cart {
		items = append(items, domain.TransactionLine{
			ID:            line.ID,
			ProductID:     line.ProductID,
			Name:          line.Name,
			Qty:           line.Qty,
			PriceCents:    line.PriceCents,
			DiscountCents: line.DiscountCents,
			IsService:     line.IsService,
		})
	}
	return items
}

func buildSplits(cashCents, cardCents int64) []domain.PaymentSplit {
	splits := []domain.PaymentSplit{}
	if cashCents > 0 {
		splits = append(splits, domain.PaymentSplit{Method: domain.PayMethodCash, AmountCents: cashCents})
	}
	if cardCents > 0 {
		splits = append(splits, domain.PaymentSplit{Method: domain.PayMethodCard, AmountCents: cardCents})
	}
	return splits
}

// prependTransaction keeps the ledger ordered most-recent-first.
func (s *Session) prependTransaction(tx domain.Transaction) {
	s.state.Transactions = append([]domain.Transaction{tx}, s.state.Transactions...)
}

// decrementStock pairs the stock mutation with exactly one matching
// inventory op. Service lines are skipped entirely.
func (s *Session) decrementStock(productID string, qty int, isService bool, note string) {
	if isService {
		return
	}
	p := s.findProduct(productID)
	if p == nil || p.IsService {
		return
	}
	p.Stock -= qty
	s.appendInventoryOp(productID, -qty, domain.InventoryOpAdjustment, note)
}

func (s *Session) appendInventoryOp(productID string, qtyChange int, opType domain.InventoryOpType, note string) {
	s.state.InventoryOps = append(s.state.InventoryOps, domain.InventoryOp{
		ID:        s.newID("iop"),
		Date:      s.now(),
		ProductID: productID,
		QtyChange: qtyChange,
		Type:      opType,
		Note:      note,
	})
	s.metrics.InventoryOps.Inc()
}
