package cart

import (
	"context"
	"errors"

	"github.com/irsalhamdi/e-commerce-shop/storage"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store owns one cart's state for the duration of a request. It rehydrates
// from the blob store on Open and writes the full state back after every
// mutation. Persistence is best effort: a failed write is logged and the
// in-memory state stays authoritative for the session.
type Store struct {
	key   string
	blobs storage.Blobs
	rules Rules
	log   logrus.FieldLogger
	state State
}

// Open loads the cart stored under key. A missing or malformed blob yields
// an empty cart, never an error.
func Open(ctx context.Context, blobs storage.Blobs, key string, rules Rules, log logrus.FieldLogger) *Store {
	s := &Store{
		key:   key,
		blobs: blobs,
		rules: rules,
		log:   log,
	}

	b, err := blobs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.WithField("cart_key", key).Warnf("loading cart: %v", err)
		}
		return s
	}

	state, err := decodeState(b)
	if err != nil {
		s.log.WithField("cart_key", key).Warnf("discarding malformed cart blob: %v", err)
		return s
	}

	s.state = state
	return s
}

func (s *Store) persist(ctx context.Context) {
	b, err := encodeState(s.state)
	if err != nil {
		s.log.WithField("cart_key", s.key).Errorf("encoding cart: %v", err)
		return
	}

	if err := s.blobs.Set(ctx, s.key, b); err != nil {
		s.log.WithField("cart_key", s.key).Errorf("persisting cart: %v", err)
	}
}

// AddItem merges quantity into an existing line or appends a new one.
// A non-positive quantity is ignored.
func (s *Store) AddItem(ctx context.Context, ref ProductRef, quantity int) {
	s.state.add(ref, quantity)
	s.persist(ctx)
}

// RemoveItem drops the line if present; removing an absent product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID int) {
	s.state.remove(productID)
	s.persist(ctx)
}

// SetQuantity replaces a line's quantity; zero or below removes the line.
func (s *Store) SetQuantity(ctx context.Context, productID int, quantity int) {
	s.state.setQuantity(productID, quantity)
	s.persist(ctx)
}

// Clear empties the items and drops any active coupon.
func (s *Store) Clear(ctx context.Context) {
	s.state.clear()
	s.persist(ctx)
}

// ApplyCoupon activates a known code and reports whether it matched. An
// unknown code leaves existing coupon state untouched.
func (s *Store) ApplyCoupon(ctx context.Context, code string) bool {
	if !s.state.applyCoupon(code, s.rules) {
		return false
	}
	s.persist(ctx)
	return true
}

// RemoveCoupon clears the active coupon unconditionally.
func (s *Store) RemoveCoupon(ctx context.Context) {
	s.state.removeCoupon()
	s.persist(ctx)
}

func (s *Store) Items() []LineItem { return s.state.Items }

func (s *Store) Coupon() string { return s.state.CouponCode }

func (s *Store) Empty() bool { return s.state.Empty() }

func (s *Store) TotalItemCount() int { return s.state.TotalItemCount() }

func (s *Store) Subtotal() decimal.Decimal { return s.state.Subtotal() }

func (s *Store) CouponDiscountAmount() decimal.Decimal { return s.state.CouponDiscountAmount() }

func (s *Store) ShippingCost() decimal.Decimal { return s.state.ShippingCost(s.rules) }

func (s *Store) GrandTotal() decimal.Decimal { return s.state.GrandTotal(s.rules) }
