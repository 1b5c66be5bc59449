package pos

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pockettill/backend/internal/cache"
	"pockettill/backend/internal/domain"
	"pockettill/backend/internal/metrics"
	"pockettill/backend/internal/store"
	"pockettill/backend/internal/xid"
)

const defaultCashierName = "Cashier"

// Session owns the application state exclusively: the persisted ledger
// state, the transient cart, and the collaborators (store, clock, id
// generator). Every mutating operation runs validate, mutate, persist
// under one mutex, so the HTTP layer can call it concurrently.
type Session struct {
	mu      sync.Mutex
	store   store.Store
	cache   cache.SnapshotCache
	metrics *metrics.Registry
	log     zerolog.Logger

	now   func() time.Time
	newID func(prefix string) string

	state domain.State
	cart  []domain.CartLine
}

type Options struct {
	Store   store.Store
	Cache   cache.SnapshotCache
	Metrics *metrics.Registry
	Logger  zerolog.Logger

	// Now and NewID are injected for tests; zero values mean the real
	// clock and generator.
	Now   func() time.Time
	NewID func(prefix string) string
}

// NewSession loads the state and cart blobs, falling back to seeded
// defaults when a blob is missing or unreadable, and persists the result
// so a fresh install starts from a known catalog.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("pos: store is required")
	}
	if opts.Cache == nil {
		opts.Cache = cache.NoopSnapshotCache{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = xid.New
	}

	s := &Session{
		store:   opts.Store,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		log:     opts.Logger,
		now:     opts.Now,
		newID:   opts.NewID,
	}

	s.state = s.loadState(ctx)
	s.cart = s.loadCart(ctx)
	s.seedCatalog()

	if s.openShift() != nil {
		s.metrics.OpenShift.Set(1)
	}

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) loadState(ctx context.Context) domain.State {
	st := defaultState()
	raw, err := s.store.Load(ctx, store.StateKey)
	if err != nil {
		if err != store.ErrNotFound {
			s.log.Warn().Err(err).Msg("state blob unreadable, starting from defaults")
		}
		return st
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		s.log.Warn().Err(err).Msg("state blob corrupt, starting from defaults")
		return defaultState()
	}
	return st
}

func (s *Session) loadCart(ctx context.Context) []domain.CartLine {
	raw, err := s.store.Load(ctx, store.CartKey)
	if err != nil {
		if err != store.ErrNotFound {
			s.log.Warn().Err(err).Msg("cart blob unreadable, starting empty")
		}
		return nil
	}
	var cart []domain.CartLine
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.log.Warn().Err(err).Msg("cart blob corrupt, starting empty")
		return nil
	}
	return cart
}

func defaultState() domain.State {
	return domain.State{
		Profile: domain.Profile{Name: defaultCashierName},
	}
}

// seedCatalog fills an empty catalog with the starter categories and
// products so the till is usable out of the box.
func (s *Session) seedCatalog() {
	if len(s.state.Categories) == 0 {
		s.state.Categories = []domain.Category{
			{ID: s.newID("cat"), Name: "Food"},
			{ID: s.newID("cat"), Name: "Drinks"},
			{ID: s.newID("cat"), Name: "Services"},
		}
	}
	if len(s.state.Products) == 0 {
		food := s.state.Categories[0].ID
		drinks := s.state.Categories[1].ID
		services := s.state.Categories[2].ID
		s.state.Products = []domain.Product{
			{ID: s.newID("prd"), Name: "Sandwich", SKU: "SND001", CategoryID: food, PriceCents: 1200, Stock: 20, Taxable: true},
			{ID: s.newID("prd"), Name: "Coffee", SKU: "DRK001", CategoryID: drinks, PriceCents: 750, Stock: 50, Taxable: true},
			{ID: s.newID("prd"), Name: "Local delivery", SKU: "SRV001", CategoryID: services, PriceCents: 1500, Stock: 9999, IsService: true},
		}
	}
}

// persist flushes both blobs synchronously, then refreshes the snapshot
// cache best-effort. Called after every mutation, inside the lock.
func (s *Session) persist(ctx context.Context) error {
	rawState, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.store.Save(ctx, store.StateKey, rawState); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	rawCart, err := json.Marshal(s.cartOrEmpty())
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.store.Save(ctx, store.CartKey, rawCart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	snap, err := json.Marshal(s.snapshotLocked())
	if err == nil {
		if cerr := s.cache.Set(ctx, snap); cerr != nil {
			s.log.Warn().Err(cerr).Msg("snapshot cache refresh failed")
		}
	}
	return nil
}

func (s *Session) cartOrEmpty() []domain.CartLine {
	if s.cart == nil {
		return []domain.CartLine{}
	}
	return s.cart
}

// snapshotLocked deep-copies the state so the snapshot stays stable
// after it leaves the lock: products, shifts, orders and promotions are
// mutated in place and must not be aliased by an escaped read model.
func (s *Session) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		State:      s.cloneState(),
		Cart:       append([]domain.CartLine(nil), s.cart...),
		CartTotals: s.cartTotals(),
		TakenAt:    s.now(),
	}
}

func (s *Session) cloneState() domain.State {
	st := s.state
	st.Categories = append([]domain.Category(nil), st.Categories...)
	st.Products = append([]domain.Product(nil), st.Products...)
	st.Promotions = append([]domain.Promotion(nil), st.Promotions...)
	st.Transactions = append([]domain.Transaction(nil), st.Transactions...)
	st.InventoryOps = append([]domain.InventoryOp(nil), st.InventoryOps...)
	st.Orders = append([]domain.Order(nil), st.Orders...)
	st.Refunds = append([]domain.Refund(nil), st.Refunds...)
	st.Shifts = append([]domain.Shift(nil), st.Shifts...)
	return st
}

// Snapshot returns the full read model the render layer re-derives from.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Catalog() domain.CatalogView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CatalogView{
		Categories: append([]domain.Category(nil), s.state.Categories...),
		Products:   append([]domain.Product(nil), s.state.Products...),
	}
}

func (s *Session) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Transaction(nil), s.state.Transactions...)
}

func (s *Session) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.state.Orders...)
}

func (s *Session) Refunds() []domain.Refund {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Refund(nil), s.state.Refunds...)
}

func (s *Session) Shifts() []domain.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Shift(nil), s.state.Shifts...)
}

func (s *Session) InventoryOps() []domain.InventoryOp {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.InventoryOp(nil), s.state.InventoryOps...)
}

func (s *Session) Promotions() []domain.Promotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Promotion(nil), s.state.Promotions...)
}

func (s *Session) Profile() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Profile
}

// UpdateProfile replaces the stored profile. An empty name falls back to
// the default cashier name so openedBy/processedBy never go blank.
func (s *Session) UpdateProfile(ctx context.Context, req domain.ProfileUpdateRequest) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := req.Name
	if name == "" {
		name = defaultCashierName
	}
	s.state.Profile = domain.Profile{
		Name:         name,
		Email:        req.Email,
		BusinessName: req.BusinessName,
	}
	if err := s.persist(ctx); err != nil {
		return domain.Profile{}, err
	}
	return s.state.Profile, nil
}

func (s *Session) cashierName() string {
	if s.state.Profile.Name != "" {
		return s.state.Profile.Name
	}
	return defaultCashierName
}

func (s *Session) findProduct(id string) *domain.Product {
	for i := range s.state.Products {
		if s.state.Products[i].ID == id {
			return &s.state.Products[i]
		}
	}
	return nil
}

func (s *Session) openShift() *domain.Shift {
	for i := range s.state.Shifts {
		if s.state.Shifts[i].State == domain.ShiftStateOpen {
			return &s.state.Shifts[i]
		}
	}
	return nil
}
