package pos

import (
	"context"
	"fmt"

	"pockettill/backend/internal/domain"
	"pockettill/backend/internal/xid"
)

// Refund reverses part of a prior transaction line. The quantity check
// is cumulative: prior partial refunds against the same line count
// toward the original quantity, so a line can never be refunded past
// what was sold. The refund amount uses the line's discounted unit
// price; stock is restored with a matching inventory op; a negative
// transaction is appended with a single cash outflow split regardless
// of how the sale was paid.
func (s *Session) Refund(ctx context.Context, req domain.RefundRequest) (domain.RefundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tx *domain.Transaction
	for i := range s.state.Transactions {
		if s.state.Transactions[i].ID == req.TransactionID {
			tx = &s.state.Transactions[i]
			break
		}
	}
	if tx == nil {
		return domain.RefundResult{}, ErrTransactionNotFound
	}

	var item *domain.TransactionLine
	for i := range tx.Items {
		if tx.Items[i].ID == req.LineItemID {
			item = &tx.Items[i]
			break
		}
	}
	if item == nil {
		return domain.RefundResult{}, ErrLineItemNotSelected
	}

	// A refund transaction's own synthesized line carries a negated
	// price; refunding it would pay out a negative amount and restock
	// the product a second time.
	if item.PriceCents < 0 {
		return domain.RefundResult{}, ErrLineNotRefundable
	}

	if req.Qty <= 0 {
		return domain.RefundResult{}, ErrInvalidQuantity
	}
	already := s.refundedQty(tx.ID, item.ID)
	if req.Qty > item.Qty-already {
		return domain.RefundResult{}, ErrInvalidQuantity
	}

	amount := (item.PriceCents - item.DiscountCents) * int64(req.Qty)
	refund := domain.Refund{
		ID:                    s.newID("ref"),
		Date:                  s.now(),
		OriginalTransactionID: tx.ID,
		LineItemID:            item.ID,
		ProductID:             item.ProductID,
		Qty:                   req.Qty,
		AmountCents:           amount,
		Reason:                req.Reason,
		ProcessedBy:           s.cashierName(),
	}
	s.state.Refunds = append([]domain.Refund{refund}, s.state.Refunds...)

	// Restore stock for any known product, services included, matching
	// the sale-side decrement only for goods.
	if p := s.findProduct(item.ProductID); p != nil {
		p.Stock += req.Qty
		s.appendInventoryOp(item.ProductID, req.Qty, domain.InventoryOpAdjustment, fmt.Sprintf("Refund %s", xid.Short(refund.ID)))
	}

	var shiftID string
	if shift := s.openShift(); shift != nil {
		shiftID = shift.ID
	}
	refundTx := domain.Transaction{
		ID:   s.newID("tx"),
		Date: s.now(),
		Items: []domain.TransactionLine{{
			ID:         s.newID("line"),
			ProductID:  item.ProductID,
			Name:       "Refund: " + item.Name,
			Qty:        req.Qty,
			PriceCents: -item.PriceCents,
			IsService:  item.IsService,
		}},
		CustomerID: tx.CustomerID,
		Splits:     []domain.PaymentSplit{{Method: domain.PayMethodCash, AmountCents: -amount}},
		TotalCents: -amount,
		Notes:      fmt.Sprintf("Refund %s", refund.ID),
		ShiftID:    shiftID,
	}
	s.prependTransaction(refundTx)

	if err := s.persist(ctx); err != nil {
		return domain.RefundResult{}, err
	}

	s.metrics.Refunds.Inc()
	s.metrics.RefundedCents.Add(float64(amount))
	s.log.Info().
		Str("refund_id", refund.ID).
		Str("transaction_id", tx.ID).
		Int64("amount_cents", amount).
		Msg("refund processed")
	return domain.RefundResult{Refund: refund, RefundTransaction: refundTx}, nil
}

func (s *Session) refundedQty(transactionID, lineItemID string) int {
	var total int
	for _, r := range s.state.Refunds {
		if r.OriginalTransactionID == transactionID && r.LineItemID == lineItemID {
			total += r.Qty
		}
	}
	return total
}
