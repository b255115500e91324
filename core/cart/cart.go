package cart

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product's presence in the cart. Price, name, image and
// per-item discount are snapshotted from the catalog when the line is first
// created and are not refreshed by later merges.
type LineItem struct {
	ProductID int
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  decimal.Decimal
	ImageRef  string
}

// ProductRef carries the catalog fields needed to open a new line.
type ProductRef struct {
	ProductID int
	Name      string
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	ImageRef  string
}

// State is the full cart aggregate. Items are ordered by insertion and
// unique by ProductID; a stored quantity is always >= 1.
type State struct {
	Items          []LineItem
	CouponCode     string
	CouponDiscount decimal.Decimal
}

// EffectiveUnitPrice is the unit price after the per-item markdown.
func (it LineItem) EffectiveUnitPrice() decimal.Decimal {
	if it.Discount.IsZero() {
		return it.UnitPrice
	}
	return it.UnitPrice.Mul(decimal.NewFromInt(1).Sub(it.Discount))
}

// LineTotal is the effective unit price times the quantity.
func (it LineItem) LineTotal() decimal.Decimal {
	return it.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func (s *State) find(productID int) int {
	for i, it := range s.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// add merges the quantity into an existing line or appends a new one.
// When merging, the existing line's snapshot wins: only the quantity moves.
func (s *State) add(ref ProductRef, quantity int) {
	if quantity <= 0 {
		return
	}

	if i := s.find(ref.ProductID); i >= 0 {
		s.Items[i].Quantity += quantity
		return
	}

	s.Items = append(s.Items, LineItem{
		ProductID: ref.ProductID,
		Name:      ref.Name,
		UnitPrice: ref.UnitPrice,
		Quantity:  quantity,
		Discount:  ref.Discount,
		ImageRef:  ref.ImageRef,
	})
}

// remove drops the line if present. Removing an absent product is a no-op.
func (s *State) remove(productID int) {
	if i := s.find(productID); i >= 0 {
		s.Items = append(s.Items[:i], s.Items[i+1:]...)
	}
}

// setQuantity replaces a line's quantity. A quantity <= 0 removes the line;
// an absent product is left absent.
func (s *State) setQuantity(productID int, quantity int) {
	if quantity <= 0 {
		s.remove(productID)
		return
	}

	if i := s.find(productID); i >= 0 {
		s.Items[i].Quantity = quantity
	}
}

func (s *State) clear() {
	s.Items = nil
	s.CouponCode = ""
	s.CouponDiscount = decimal.Decimal{}
}

// applyCoupon activates a code from the rules table. An unknown code leaves
// any previously applied coupon untouched.
func (s *State) applyCoupon(code string, rules Rules) bool {
	frac, ok := rules.CouponDiscount(code)
	if !ok {
		return false
	}

	s.CouponCode = rules.CanonicalCode(code)
	s.CouponDiscount = frac
	return true
}

func (s *State) removeCoupon() {
	s.CouponCode = ""
	s.CouponDiscount = decimal.Decimal{}
}

// Empty reports whether the cart holds no lines. Checkout is refused on an
// empty cart.
func (s *State) Empty() bool {
	return len(s.Items) == 0
}

// TotalItemCount is the sum of all line quantities.
func (s *State) TotalItemCount() int {
	var n int
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal sums the effective line totals, pre-coupon, pre-shipping.
func (s *State) Subtotal() decimal.Decimal {
	sum := decimal.Decimal{}
	for _, it := range s.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// CouponDiscountAmount is the subtotal share taken off by the active coupon.
func (s *State) CouponDiscountAmount() decimal.Decimal {
	if s.CouponDiscount.IsZero() {
		return decimal.Decimal{}
	}
	return s.Subtotal().Mul(s.CouponDiscount)
}

// ShippingCost evaluates the shipping policy against the current subtotal.
func (s *State) ShippingCost(rules Rules) decimal.Decimal {
	return rules.Shipping(s.Subtotal(), s.Empty())
}

// GrandTotal is subtotal minus coupon discount plus shipping, floored at zero.
func (s *State) GrandTotal(rules Rules) decimal.Decimal {
	tot := s.Subtotal().Sub(s.CouponDiscountAmount()).Add(s.ShippingCost(rules))
	if tot.IsNegative() {
		return decimal.Decimal{}
	}
	return tot
}
