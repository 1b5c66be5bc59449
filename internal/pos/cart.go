package pos

import (
	"context"

	"pockettill/backend/internal/domain"
)

// AddToCart adds one unit of a product. Lines merge on (product, price)
// so a price change mid-session opens a separate line. Zero stock on a
// non-service product does not block the sale; the result only carries a
// warning flag.
func (s *Session) AddToCart(ctx context.Context, productID string) (domain.AddToCartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(productID)
	if p == nil {
		return domain.AddToCartResult{}, ErrProductNotFound
	}

	outOfStock := p.Stock <= 0 && !p.IsService

	idx := -1
	for i := range s.cart {
		if s.cart[i].ProductID == p.ID && s.cart[i].PriceCents == p.PriceCents {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.cart[idx].Qty++
	} else {
		s.cart = append(s.cart, domain.CartLine{
			ID:         s.newID("line"),
			ProductID:  p.ID,
			Name:       p.Name,
			Qty:        1,
			PriceCents: p.PriceCents,
			IsService:  p.IsService,
		})
		idx = len(s.cart) - 1
	}

	s.applyPromotions()
	if err := s.persist(ctx); err != nil {
		return domain.AddToCartResult{}, err
	}

	return domain.AddToCartResult{
		Line:       s.cart[idx],
		Cart:       append([]domain.CartLine(nil), s.cart...),
		Totals:     s.cartTotals(),
		OutOfStock: outOfStock,
	}, nil
}

// SetQty clamps to zero and below; a resulting quantity of zero removes
// the line.
func (s *Session) SetQty(ctx context.Context, lineID string, qty int) (domain.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.cart {
		if s.cart[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.CartView{}, ErrLineNotFound
	}

	if qty < 0 {
		qty = 0
	}
	if qty == 0 {
		s.cart = append(s.cart[:idx], s.cart[idx+1:]...)
	} else {
		s.cart[idx].Qty = qty
	}

	s.applyPromotions()
	if err := s.persist(ctx); err != nil {
		return domain.CartView{}, err
	}
	return s.cartView(), nil
}

// RemoveLine is unconditional; removing an unknown line is a no-op.
func (s *Session) RemoveLine(ctx context.Context, lineID string) (domain.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cart[:0]
	for _, line := range s.cart {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	s.cart = kept

	s.applyPromotions()
	if err := s.persist(ctx); err != nil {
		return domain.CartView{}, err
	}
	return s.cartView(), nil
}

func (s *Session) ClearCart(ctx context.Context) (domain.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = nil
	if err := s.persist(ctx); err != nil {
		return domain.CartView{}, err
	}
	return s.cartView(), nil
}

func (s *Session) Cart() domain.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartView()
}

func (s *Session) cartView() domain.CartView {
	return domain.CartView{
		Lines:  append([]domain.CartLine(nil), s.cart...),
		Totals: s.cartTotals(),
	}
}

func (s *Session) subtotalBefore() int64 {
	var sum int64
	for _, line := range s.cart {
		sum += line.PriceCents * int64(line.Qty)
	}
	return sum
}

func (s *Session) subtotalAfter() int64 {
	var sum int64
	for _, line := range s.cart {
		sum += (line.PriceCents - line.DiscountCents) * int64(line.Qty)
	}
	return sum
}

func (s *Session) cartQtyTotal() int {
	var qty int
	for _, line := range s.cart {
		qty += line.Qty
	}
	return qty
}

func (s *Session) cartTotals() domain.CartTotals {
	before := s.subtotalBefore()
	after := s.subtotalAfter()
	return domain.CartTotals{
		SubtotalBeforeCents: before,
		DiscountCents:       before - after,
		SubtotalAfterCents:  after,
		QtyTotal:            s.cartQtyTotal(),
	}
}
