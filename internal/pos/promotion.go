package pos

import (
	"context"
	"math"

	"pockettill/backend/internal/domain"
)

// applyPromotions is a pure recomputation: every discount is reset, then
// every eligible promotion is re-evaluated against the current cart.
// Eligibility (minimum total and quantity) is measured on undiscounted
// prices across the whole cart. Runs inside the lock.
func (s *Session) applyPromotions() {
	for i := range s.cart {
		s.cart[i].DiscountCents = 0
	}
	if len(s.cart) == 0 {
		return
	}

	subtotal := s.subtotalBefore()
	qtyTotal := s.cartQtyTotal()
	now := s.now()

	for _, promo := range s.state.Promotions {
		if !promo.Active {
			continue
		}
		if promo.ExpiresAt != nil && promo.ExpiresAt.Before(now) {
			continue
		}
		if promo.MinTotalCents > 0 && subtotal < promo.MinTotalCents {
			continue
		}
		if promo.MinQty > 0 && qtyTotal < promo.MinQty {
			continue
		}
		if len(promo.ProductIDs) > 0 && !s.cartContainsAny(promo.ProductIDs) {
			continue
		}

		switch promo.Kind {
		case domain.PromotionPercentOff:
			for i := range s.cart {
				if !promoCovers(promo, s.cart[i].ProductID) {
					continue
				}
				off := int64(math.Round(float64(s.cart[i].PriceCents) * promo.PercentOff / 100))
				if off > s.cart[i].PriceCents {
					off = s.cart[i].PriceCents
				}
				// Concurrent promotions do not stack; the larger single
				// discount wins.
				if off > s.cart[i].DiscountCents {
					s.cart[i].DiscountCents = off
				}
			}
		case domain.PromotionFixedOff:
			// Fixed-off lands on the first covered line only.
			for i := range s.cart {
				if !promoCovers(promo, s.cart[i].ProductID) {
					continue
				}
				off := promo.FixedOffCents
				if off > s.cart[i].PriceCents {
					off = s.cart[i].PriceCents
				}
				if off > s.cart[i].DiscountCents {
					s.cart[i].DiscountCents = off
				}
				break
			}
		}
	}
}

func (s *Session) cartContainsAny(productIDs []string) bool {
	for _, line := range s.cart {
		for _, id := range productIDs {
			if line.ProductID == id {
				return true
			}
		}
	}
	return false
}

func promoCovers(p domain.Promotion, productID string) bool {
	if len(p.ProductIDs) == 0 {
		return true
	}
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// CreatePromotion adds a promotion, active immediately. The current cart
// is recomputed so the new discount shows up without another cart touch.
func (s *Session) CreatePromotion(ctx context.Context, req domain.PromotionCreateRequest) (domain.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Name == "" {
		return domain.Promotion{}, ErrInvalidPromotion
	}
	switch req.Kind {
	case domain.PromotionPercentOff:
		if req.PercentOff <= 0 || req.PercentOff > 100 {
			return domain.Promotion{}, ErrInvalidPromotion
		}
	case domain.PromotionFixedOff:
		if req.FixedOffCents <= 0 {
			return domain.Promotion{}, ErrInvalidPromotion
		}
	default:
		return domain.Promotion{}, ErrInvalidPromotion
	}

	promo := domain.Promotion{
		ID:            s.newID("promo"),
		Name:          req.Name,
		Kind:          req.Kind,
		PercentOff:    req.PercentOff,
		FixedOffCents: req.FixedOffCents,
		ProductIDs:    append([]string(nil), req.ProductIDs...),
		Active:        true,
		MinQty:        req.MinQty,
		MinTotalCents: req.MinTotalCents,
		CreatedAt:     s.now(),
	}
	s.state.Promotions = append(s.state.Promotions, promo)

	s.applyPromotions()
	if err := s.persist(ctx); err != nil {
		return domain.Promotion{}, err
	}

	s.log.Info().Str("promotion_id", promo.ID).Str("kind", string(promo.Kind)).Msg("promotion created")
	return promo, nil
}

func (s *Session) SetPromotionActive(ctx context.Context, promotionID string, active bool) (domain.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Promotions {
		if s.state.Promotions[i].ID == promotionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Promotion{}, ErrPromotionNotFound
	}

	s.state.Promotions[idx].Active = active
	s.applyPromotions()
	if err := s.persist(ctx); err != nil {
		return domain.Promotion{}, err
	}
	return s.state.Promotions[idx], nil
}
