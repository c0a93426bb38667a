package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/blissbyuddy/storefront-client/pkg/logger"
	"github.com/blissbyuddy/storefront-client/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Mode tracks which store owns the cart. The merge transition runs at most
// once per login: guest -> merging -> synced, back to guest on logout.
type Mode int

const (
	ModeGuest Mode = iota
	ModeMerging
	ModeSynced
)

func (m Mode) String() string {
	switch m {
	case ModeGuest:
		return "guest"
	case ModeMerging:
		return "merging"
	case ModeSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// Backend is the remote cart surface of the commerce API.
type Backend interface {
	FetchItems(ctx context.Context) ([]WireItem, error)
	AddItem(ctx context.Context, productID string, quantity int) ([]WireItem, error)
	UpdateItem(ctx context.Context, productID string, quantity int) ([]WireItem, error)
	// RemoveItem reports ok=false when the server answered with no content
	// or an ambiguous body, in which case the caller re-fetches.
	RemoveItem(ctx context.Context, productID string) ([]WireItem, bool, error)
	Clear(ctx context.Context) error
}

// ServiceParams wires the cart service dependencies.
type ServiceParams struct {
	Backend Backend
	Guest   GuestStore
	Logger  *logger.Logger
}

// Service owns client-visible cart state and presents the same surface
// whether the backing store is the guest store or the remote cart.
type Service struct {
	mu      sync.Mutex
	backend Backend
	guest   GuestStore
	logg    *logger.Logger

	mode    Mode
	lines   []Line
	lastErr atomic.Value
	loading atomic.Bool
}

// NewService builds the cart service and restores any persisted guest cart.
func NewService(ctx context.Context, params ServiceParams) (*Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("cart backend required")
	}
	if params.Guest == nil {
		return nil, fmt.Errorf("guest store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &Service{
		backend: params.Backend,
		guest:   params.Guest,
		logg:    params.Logger,
		mode:    ModeGuest,
	}
	s.lastErr.Store("")

	lines, err := params.Guest.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restoring guest cart: %w", err)
	}
	s.lines = lines
	return s, nil
}

// Cart returns the current lines.
func (s *Service) Cart() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total recomputes the cart total on every call; it is never stored.
func (s *Service) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalOf(s.lines)
}

// Mode reports which store currently owns the cart.
func (s *Service) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Loading reports whether a network-backed operation is in flight.
func (s *Service) Loading() bool {
	return s.loading.Load()
}

// Err returns the last operation's user-facing error, empty when the last
// operation succeeded.
func (s *Service) Err() string {
	if v, ok := s.lastErr.Load().(string); ok {
		return v
	}
	return ""
}

// SetAuthenticated drives the guest/remote transition. Turning authenticated
// on merges any guest lines into the remote cart exactly once; turning it
// off reverts to the guest store without copying remote lines down.
func (s *Service) SetAuthenticated(ctx context.Context, authenticated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if authenticated {
		if s.mode != ModeGuest {
			// Auth state events can fire repeatedly during bootstrap.
			return nil
		}
		if len(s.lines) > 0 {
			return s.mergeGuestCart(ctx)
		}
		s.mode = ModeSynced
		return s.fetchLocked(ctx)
	}

	s.mode = ModeGuest
	lines, err := s.guest.Load(ctx)
	if err != nil {
		s.lines = nil
		s.setErr("Failed to restore your cart.")
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore guest cart")
	}
	s.lines = lines
	s.setErr("")
	return nil
}

// FetchCart replaces in-memory state with the server's line list. The caller
// must be authenticated.
func (s *Service) FetchCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeGuest {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to fetch the remote cart")
	}
	return s.fetchLocked(ctx)
}

// AddToCart adds the referenced product, incrementing quantity when a line
// for the same product already exists.
func (s *Service) AddToCart(ctx context.Context, ref ProductRef, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	productID, err := ref.Resolve()
	if err != nil {
		s.setErr("Invalid product.")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr("")

	if s.mode == ModeGuest {
		return s.guestAdd(ctx, ref, productID, quantity)
	}

	items, err := s.remote(ctx, "add_to_cart", func(ctx context.Context) ([]WireItem, error) {
		return s.backend.AddItem(ctx, productID, quantity)
	})
	if err != nil {
		s.setErr("Failed to add item. Please try again.")
		return err
	}
	s.lines = Normalize(items)
	return nil
}

// UpdateQuantity sets the referenced line's quantity. Quantities below one
// are rejected locally; the cart is never mutated and no request is sent.
func (s *Service) UpdateQuantity(ctx context.Context, ref ProductRef, quantity int) error {
	if quantity < 1 {
		s.setErr("Quantity must be at least 1.")
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	productID, err := ref.Resolve()
	if err != nil {
		s.setErr("Invalid product.")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr("")

	if s.mode == ModeGuest {
		for i := range s.lines {
			if s.lines[i].ProductID == productID {
				s.lines[i].Quantity = quantity
				return s.persistGuest(ctx)
			}
		}
		s.setErr("Item not in cart.")
		return pkgerrors.New(pkgerrors.CodeNotFound, "line not found")
	}

	items, err := s.remote(ctx, "update_quantity", func(ctx context.Context) ([]WireItem, error) {
		return s.backend.UpdateItem(ctx, productID, quantity)
	})
	if err != nil {
		s.setErr("Failed to update quantity. Please try again.")
		return err
	}
	s.lines = Normalize(items)
	return nil
}

// RemoveFromCart removes the referenced line. An ambiguous server response
// falls back to a fresh fetch.
func (s *Service) RemoveFromCart(ctx context.Context, ref ProductRef) error {
	productID, err := ref.Resolve()
	if err != nil {
		s.setErr("Invalid product.")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr("")

	if s.mode == ModeGuest {
		kept := s.lines[:0]
		for _, line := range s.lines {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		s.lines = kept
		return s.persistGuest(ctx)
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	items, ok, err := s.backend.RemoveItem(ctx, productID)
	if err != nil {
		s.setErr("Failed to remove item. Please try again.")
		return err
	}
	if !ok {
		return s.fetchLocked(ctx)
	}
	s.lines = Normalize(items)
	return nil
}

// ClearCart empties the cart in whichever store owns it.
func (s *Service) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr("")

	if s.mode == ModeGuest {
		s.lines = nil
		if err := s.guest.Clear(ctx); err != nil {
			s.setErr("Failed to clear cart.")
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear guest store")
		}
		return nil
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	if err := s.backend.Clear(ctx); err != nil {
		s.setErr("Failed to clear cart. Please try again.")
		return err
	}
	s.lines = nil
	return nil
}

// mergeGuestCart submits each guest line to the remote cart best-effort:
// individual failures are logged and skipped, the guest store is cleared
// unconditionally so the merge never repeats, and the server's post-merge
// state becomes authoritative. Callers hold the lock.
func (s *Service) mergeGuestCart(ctx context.Context) error {
	s.mode = ModeMerging
	s.loading.Store(true)
	defer s.loading.Store(false)

	var merged error
	for _, line := range s.lines {
		if _, err := s.backend.AddItem(ctx, line.ProductID, line.Quantity); err != nil {
			lctx := s.logg.WithProductID(ctx, line.ProductID)
			s.logg.Warn(lctx, "guest cart line skipped during merge")
			merged = multierr.Append(merged, fmt.Errorf("merge product %s: %w", line.ProductID, err))
		}
	}
	if merged != nil {
		s.logg.Error(ctx, "guest cart merge was partial", merged)
	}

	if err := s.guest.Clear(ctx); err != nil {
		s.logg.Error(ctx, "failed to clear guest store after merge", err)
	}

	s.mode = ModeSynced
	return s.fetchLocked(ctx)
}

// fetchLocked pulls the remote cart. On failure the in-memory cart resets to
// empty and the error flag is set; there is no automatic retry.
func (s *Service) fetchLocked(ctx context.Context) error {
	s.loading.Store(true)
	defer s.loading.Store(false)
	s.setErr("")

	items, err := s.backend.FetchItems(ctx)
	if err != nil {
		s.lines = nil
		s.setErr("Failed to fetch cart. Please try again later.")
		s.logg.Error(s.logg.WithOperation(ctx, "fetch_cart"), "fetch cart failed", err)
		return err
	}
	s.lines = Normalize(items)
	if err := s.guest.Clear(ctx); err != nil {
		s.logg.Error(ctx, "failed to clear guest store after fetch", err)
	}
	return nil
}

func (s *Service) guestAdd(ctx context.Context, ref ProductRef, productID string, quantity int) error {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity += quantity
			return s.persistGuest(ctx)
		}
	}

	item := WireItem{Quantity: quantity}
	if ref.Product != nil {
		item.Product = ref.Product
	} else {
		item.Product = &WireProduct{ID: types.StringOrNumber(productID)}
	}
	lines := Normalize([]WireItem{item})
	for i := range lines {
		if lines[i].ProductID == "" {
			lines[i].ProductID = productID
			lines[i].ID = "guest-" + productID
		}
	}
	s.lines = append(s.lines, lines...)
	return s.persistGuest(ctx)
}

func (s *Service) persistGuest(ctx context.Context) error {
	if err := s.guest.Save(ctx, s.lines); err != nil {
		s.setErr("Failed to save your cart.")
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist guest cart")
	}
	return nil
}

func (s *Service) remote(ctx context.Context, op string, fn func(context.Context) ([]WireItem, error)) ([]WireItem, error) {
	s.loading.Store(true)
	defer s.loading.Store(false)

	items, err := fn(ctx)
	if err != nil {
		s.logg.Error(s.logg.WithOperation(ctx, op), "cart request failed", err)
		return nil, err
	}
	return items, nil
}

func (s *Service) setErr(msg string) {
	s.lastErr.Store(msg)
}
