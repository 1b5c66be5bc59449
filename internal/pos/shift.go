package pos

import (
	"context"
	"time"

	"pockettill/backend/internal/domain"
)

// OpenShift starts a cashier session. At most one shift is open at a
// time.
func (s *Session) OpenShift(ctx context.Context, req domain.ShiftOpenRequest) (domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openShift() != nil {
		return domain.Shift{}, ErrShiftAlreadyOpen
	}
	if req.OpeningCashCents < 0 {
		return domain.Shift{}, ErrInvalidAmount
	}

	shift := domain.Shift{
		ID:               s.newID("shift"),
		OpenedAt:         s.now(),
		OpenedBy:         s.cashierName(),
		OpeningCashCents: req.OpeningCashCents,
		State:            domain.ShiftStateOpen,
	}
	s.state.Shifts = append([]domain.Shift{shift}, s.state.Shifts...)

	if err := s.persist(ctx); err != nil {
		return domain.Shift{}, err
	}

	s.metrics.ShiftOpens.Inc()
	s.metrics.OpenShift.Set(1)
	s.log.Info().
		Str("shift_id", shift.ID).
		Int64("opening_cash_cents", shift.OpeningCashCents).
		Msg("shift opened")
	return shift, nil
}

// CloseShift reconciles and closes the open shift. Totals are summed
// over transactions dated within [openedAt, now]; the discrepancy
// against counted cash is computed once here and frozen on the record.
func (s *Session) CloseShift(ctx context.Context, req domain.ShiftCloseRequest) (domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift := s.openShift()
	if shift == nil {
		return domain.Shift{}, ErrNoOpenShift
	}

	now := s.now()
	totals := s.totalsForWindow(shift.OpenedAt, now)

	closedAt := now
	shift.ClosedAt = &closedAt
	shift.ClosingCashCents = req.ClosingCashCents
	shift.CashSalesCents = totals.CashCents
	shift.CardSalesCents = totals.CardCents
	shift.OtherSalesCents = totals.OtherCents
	shift.Notes = req.Notes
	shift.State = domain.ShiftStateClosed

	expected := shift.OpeningCashCents + totals.CashCents
	discrepancy := req.ClosingCashCents - expected
	shift.DiscrepancyCents = &discrepancy

	if err := s.persist(ctx); err != nil {
		return domain.Shift{}, err
	}

	s.metrics.ShiftCloses.Inc()
	s.metrics.OpenShift.Set(0)
	s.log.Info().
		Str("shift_id", shift.ID).
		Int64("discrepancy_cents", discrepancy).
		Msg("shift closed")
	return *shift, nil
}

// CurrentShift reports the open shift with live windowed totals, without
// mutating anything.
func (s *Session) CurrentShift() domain.ShiftStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift := s.openShift()
	if shift == nil {
		return domain.ShiftStatus{}
	}
	snap := *shift
	return domain.ShiftStatus{
		Open:   true,
		Shift:  &snap,
		Totals: s.totalsForWindow(shift.OpenedAt, s.now()),
	}
}

// totalsForWindow sums transaction splits by method over the inclusive
// date window. Refund transactions carry negative cash splits, so they
// subtract naturally.
func (s *Session) totalsForWindow(from, to time.Time) domain.ShiftTotals {
	var totals domain.ShiftTotals
	for _, tx := range s.state.Transactions {
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		for _, split := range tx.Splits {
			switch split.Method {
			case domain.PayMethodCash:
				totals.CashCents += split.AmountCents
			case domain.PayMethodCard:
				totals.CardCents += split.AmountCents
			default:
				totals.OtherCents += split.AmountCents
			}
		}
	}
	return totals
}
