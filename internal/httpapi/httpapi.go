package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pockettill/backend/internal/cache"
	"pockettill/backend/internal/domain"
	"pockettill/backend/internal/pos"
)

// API exposes the session engine over JSON. Every handler delegates to
// the engine; the engine's own mutex serializes the mutations.
type API struct {
	session   *pos.Session
	snapshots cache.SnapshotCache
	metrics   http.Handler
	log       zerolog.Logger
}

func New(session *pos.Session, snapshots cache.SnapshotCache, metricsHandler http.Handler, logger zerolog.Logger) *API {
	if snapshots == nil {
		snapshots = cache.NoopSnapshotCache{}
	}
	return &API{
		session:   session,
		snapshots: snapshots,
		metrics:   metricsHandler,
		log:       logger,
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.handleHealth)
	if a.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", a.handleCatalog)
		r.Get("/snapshot", a.handleSnapshot)

		r.Get("/cart", a.handleCart)
		r.Delete("/cart", a.handleClearCart)
		r.Post("/cart/items", a.handleAddToCart)
		r.Put("/cart/items/{lineID}", a.handleSetQty)
		r.Delete("/cart/items/{lineID}", a.handleRemoveLine)

		r.Post("/checkout", a.handleCheckout)

		r.Get("/orders", a.handleListOrders)
		r.Post("/orders", a.handleCreateOrder)
		r.Post("/orders/{orderID}/pickup", a.handlePickup)

		r.Get("/shifts", a.handleListShifts)
		r.Get("/shifts/current", a.handleCurrentShift)
		r.Post("/shifts/open", a.handleOpenShift)
		r.Post("/shifts/close", a.handleCloseShift)

		r.Get("/transactions", a.handleListTransactions)

		r.Get("/refunds", a.handleListRefunds)
		r.Post("/refunds", a.handleRefund)

		r.Get("/inventory/ops", a.handleListInventoryOps)
		r.Post("/inventory/receive", a.handleReceiveStock)
		r.Post("/inventory/loss", a.handleRecordLoss)
		r.Post("/inventory/count", a.handleCountStock)

		r.Get("/promotions", a.handleListPromotions)
		r.Post("/promotions", a.handleCreatePromotion)
		r.Post("/promotions/{promotionID}/toggle", a.handleTogglePromotion)

		r.Get("/profile", a.handleProfile)
		r.Put("/profile", a.handleUpdateProfile)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.Catalog())
}

// handleSnapshot prefers the cached render snapshot: the engine
// refreshes it under its lock on every mutation, so a hit serves the
// exact payload without touching the session.
func (a *API) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	payload, ok, err := a.snapshots.Get(r.Context())
	if err != nil {
		a.log.Warn().Err(err).Msg("snapshot cache read failed")
	} else if ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}
	writeJSON(w, http.StatusOK, a.session.Snapshot())
}

func (a *API) handleCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.Cart())
}

func (a *API) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req domain.AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := a.session.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleSetQty(w http.ResponseWriter, r *http.Request) {
	var req domain.SetQtyRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	view, err := a.session.SetQty(r.Context(), chi.URLParam(r, "lineID"), req.Qty)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleRemoveLine(w http.ResponseWriter, r *http.Request) {
	view, err := a.session.RemoveLine(r.Context(), chi.URLParam(r, "lineID"))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := a.session.ClearCart(r.Context())
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := a.session.Checkout(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"orders": a.session.Orders()})
}

func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	order, err := a.session.CreateOrder(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (a *API) handlePickup(w http.ResponseWriter, r *http.Request) {
	var req domain.PickupRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	order, err := a.session.FinalizePickup(r.Context(), chi.URLParam(r, "orderID"), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *API) handleListShifts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"shifts": a.session.Shifts()})
}

func (a *API) handleCurrentShift(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.CurrentShift())
}

func (a *API) handleOpenShift(w http.ResponseWriter, r *http.Request) {
	var req domain.ShiftOpenRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	shift, err := a.session.OpenShift(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shift)
}

func (a *API) handleCloseShift(w http.ResponseWriter, r *http.Request) {
	var req domain.ShiftCloseRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	shift, err := a.session.CloseShift(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shift)
}

func (a *API) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"transactions": a.session.Transactions()})
}

func (a *API) handleListRefunds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"refunds": a.session.Refunds()})
}

func (a *API) handleRefund(w http.ResponseWriter, r *http.Request) {
	var req domain.RefundRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := a.session.Refund(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (a *API) handleListInventoryOps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"inventory_ops": a.session.InventoryOps()})
}

func (a *API) handleReceiveStock(w http.ResponseWriter, r *http.Request) {
	var req domain.ReceiveStockRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	product, err := a.session.ReceiveStock(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *API) handleRecordLoss(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordLossRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	product, err := a.session.RecordLoss(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *API) handleCountStock(w http.ResponseWriter, r *http.Request) {
	var req domain.CountStockRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	product, err := a.session.CountStock(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *API) handleListPromotions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"promotions": a.session.Promotions()})
}

func (a *API) handleCreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req domain.PromotionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	promo, err := a.session.CreatePromotion(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, promo)
}

func (a *API) handleTogglePromotion(w http.ResponseWriter, r *http.Request) {
	var req domain.PromotionToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	promo, err := a.session.SetPromotionActive(r.Context(), chi.URLParam(r, "promotionID"), req.Active)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promo)
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.Profile())
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.ProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	profile, err := a.session.UpdateProfile(r.Context(), req)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// writeEngineError maps the engine's sentinel errors to HTTP statuses:
// lookups to 404, state conflicts to 409, validation to 400.
func (a *API) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pos.ErrProductNotFound),
		errors.Is(err, pos.ErrLineNotFound),
		errors.Is(err, pos.ErrTransactionNotFound),
		errors.Is(err, pos.ErrOrderNotFound),
		errors.Is(err, pos.ErrPromotionNotFound):
		a.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, pos.ErrShiftAlreadyOpen),
		errors.Is(err, pos.ErrNoOpenShift),
		errors.Is(err, pos.ErrOrderNotPending),
		errors.Is(err, pos.ErrInsufficientPayment):
		a.writeError(w, http.StatusConflict, err)
	case errors.Is(err, pos.ErrEmptyCart),
		errors.Is(err, pos.ErrInvalidQuantity),
		errors.Is(err, pos.ErrInvalidAmount),
		errors.Is(err, pos.ErrLineItemNotSelected),
		errors.Is(err, pos.ErrLineNotRefundable),
		errors.Is(err, pos.ErrInvalidPromotion):
		a.writeError(w, http.StatusBadRequest, err)
	default:
		a.writeError(w, http.StatusInternalServerError, err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	// 5xx responses get a generic message so persistence errors never
	// leak paths or SQL to the client.
	msg := err.Error()
	if status >= 500 {
		a.log.Error().Err(err).Int("status", status).Msg("internal error")
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}
