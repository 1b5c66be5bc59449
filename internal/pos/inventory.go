package pos

import (
	"context"

	"pockettill/backend/internal/domain"
)

// ReceiveStock adds qty units and records a receive op.
func (s *Session) ReceiveStock(ctx context.Context, req domain.ReceiveStockRequest) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(req.ProductID)
	if p == nil {
		return domain.Product{}, ErrProductNotFound
	}
	if req.Qty <= 0 {
		return domain.Product{}, ErrInvalidQuantity
	}

	note := req.Note
	if note == "" {
		note = "Manual receive"
	}
	p.Stock += req.Qty
	s.appendInventoryOp(p.ID, req.Qty, domain.InventoryOpReceive, note)

	if err := s.persist(ctx); err != nil {
		return domain.Product{}, err
	}
	s.log.Info().Str("product_id", p.ID).Int("qty", req.Qty).Msg("stock received")
	return *p, nil
}

// RecordLoss writes off one unit.
func (s *Session) RecordLoss(ctx context.Context, req domain.RecordLossRequest) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(req.ProductID)
	if p == nil {
		return domain.Product{}, ErrProductNotFound
	}

	p.Stock--
	s.appendInventoryOp(p.ID, -1, domain.InventoryOpLoss, "Manual loss")

	if err := s.persist(ctx); err != nil {
		return domain.Product{}, err
	}
	s.log.Info().Str("product_id", p.ID).Msg("loss recorded")
	return *p, nil
}

// CountStock sets stock to the counted absolute value and records the
// delta as an inventory_count op. A zero delta still records the count.
func (s *Session) CountStock(ctx context.Context, req domain.CountStockRequest) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(req.ProductID)
	if p == nil {
		return domain.Product{}, ErrProductNotFound
	}
	if req.CountedQty < 0 {
		return domain.Product{}, ErrInvalidQuantity
	}

	delta := req.CountedQty - p.Stock
	p.Stock = req.CountedQty
	s.appendInventoryOp(p.ID, delta, domain.InventoryOpCount, "Manual count")

	if err := s.persist(ctx); err != nil {
		return domain.Product{}, err
	}
	s.log.Info().Str("product_id", p.ID).Int("counted", req.CountedQty).Int("delta", delta).Msg("stock counted")
	return *p, nil
}
