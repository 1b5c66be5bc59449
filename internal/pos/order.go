package pos

import (
	"context"
	"fmt"

	"pockettill/backend/internal/domain"
	"pockettill/backend/internal/xid"
)

// CreateOrder snapshots the cart into an order. A payNow order is paid
// and completed immediately and produces a transaction with a single
// card split for the full total; a pickup order stays pending until
// FinalizePickup. The cart is cleared either way. Orders may be created
// without an open shift.
func (s *Session) CreateOrder(ctx context.Context, req domain.OrderCreateRequest) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	total := s.subtotalAfter()
	var shiftID string
	if shift := s.openShift(); shift != nil {
		shiftID = shift.ID
	}

	items := make([]domain.OrderLine, 0, len(s.cart))
	for _, line := range s.cart {
		items = append(items, domain.OrderLine{
			ID:         s.newID("oln"),
			ProductID:  line.ProductID,
			Name:       line.Name,
			Qty:        line.Qty,
			PriceCents: line.PriceCents,
			IsService:  line.IsService,
		})
	}

	order := domain.Order{
		ID:         s.newID("ord"),
		CreatedAt:  s.now(),
		Items:      items,
		TotalCents: total,
		PayNow:     req.PayNow,
		Paid:       req.PayNow,
		Status:     domain.OrderStatusPending,
		Notes:      req.Notes,
		ShiftID:    shiftID,
	}
	if req.PayNow {
		order.Status = domain.OrderStatusCompleted
	}
	s.state.Orders = append([]domain.Order{order}, s.state.Orders...)

	if req.PayNow {
		tx := domain.Transaction{
			ID:         s.newID("tx"),
			Date:       s.now(),
			Items:      s.cartSnapshot(),
			Splits:     []domain.PaymentSplit{{Method: domain.PayMethodCard, AmountCents: total}},
			TotalCents: total,
			Notes:      fmt.Sprintf("Order payNow:%s", order.ID),
			ShiftID:    shiftID,
		}
		s.prependTransaction(tx)
		for _, it := range order.Items {
			s.decrementStock(it.ProductID, it.Qty, it.IsService, fmt.Sprintf("OrderPayNow %s", xid.Short(order.ID)))
		}
		s.metrics.Checkouts.Inc()
		if total > 0 {
			s.metrics.SalesCents.Add(float64(total))
		}
	}

	s.cart = nil
	if err := s.persist(ctx); err != nil {
		return domain.Order{}, err
	}

	s.metrics.Orders.Inc()
	s.log.Info().
		Str("order_id", order.ID).
		Bool("pay_now", order.PayNow).
		Int64("total_cents", total).
		Msg("order created")
	return order, nil
}

// FinalizePickup is the one-way pending to completed transition. It
// rejects orders already paid or created as payNow, and requires the
// tendered total to cover the order.
func (s *Session) FinalizePickup(ctx context.Context, orderID string, req domain.PickupRequest) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Orders {
		if s.state.Orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Order{}, ErrOrderNotFound
	}
	order := &s.state.Orders[idx]
	if order.Paid || order.PayNow {
		return domain.Order{}, ErrOrderNotPending
	}
	if req.CashCents < 0 || req.CardCents < 0 {
		return domain.Order{}, ErrInvalidAmount
	}
	if req.CashCents+req.CardCents < order.TotalCents {
		return domain.Order{}, ErrInsufficientPayment
	}

	items := make([]domain.TransactionLine, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, domain.TransactionLine{
			ID:         s.newID("line"),
			ProductID:  it.ProductID,
			Name:       it.Name,
			Qty:        it.Qty,
			PriceCents: it.PriceCents,
			IsService:  it.IsService,
		})
	}
	tx := domain.Transaction{
		ID:         s.newID("tx"),
		Date:       s.now(),
		Items:      items,
		CustomerID: order.CustomerID,
		Splits:     buildSplits(req.CashCents, req.CardCents),
		TotalCents: order.TotalCents,
		Notes:      fmt.Sprintf("Order pickup:%s", order.ID),
		ShiftID:    order.ShiftID,
	}
	s.prependTransaction(tx)

	order.Paid = true
	order.Status = domain.OrderStatusCompleted

	for _, it := range order.Items {
		s.decrementStock(it.ProductID, it.Qty, it.IsService, fmt.Sprintf("OrderPickup %s", xid.Short(order.ID)))
	}

	if err := s.persist(ctx); err != nil {
		return domain.Order{}, err
	}

	s.metrics.Pickups.Inc()
	if order.TotalCents > 0 {
		s.metrics.SalesCents.Add(float64(order.TotalCents))
	}
	s.log.Info().
		Str("order_id", order.ID).
		Str("transaction_id", tx.ID).
		Int64("total_cents", order.TotalCents).
		Msg("pickup finalized")
	return *order, nil
}
