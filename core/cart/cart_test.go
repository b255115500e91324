package cart

import (
	"context"
	"io"
	"testing"

	"github.com/irsalhamdi/e-commerce-shop/storage/cartmem"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testRules(t *testing.T) Rules {
	t.Helper()

	rules, err := ParseRules("10", "0", "SAVE10:0.10;WELCOME:0.05;FIRSTORDER:0.15")
	if err != nil {
		t.Fatalf("parsing default rules: %v", err)
	}
	return rules
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parsing decimal %q: %v", s, err)
	}
	return d
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return Open(context.Background(), cartmem.New(), "cart:test", testRules(t), testLogger())
}

func ref(id int, price string, discount string) ProductRef {
	r := ProductRef{
		ProductID: id,
		Name:      "product",
		UnitPrice: decimal.RequireFromString(price),
		ImageRef:  "product.jpg",
	}
	if discount != "" {
		r.Discount = decimal.RequireFromString(discount)
	}
	return r
}

func TestAddItemMergesQuantity(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	st.AddItem(ctx, ref(1, "10", ""), 2)
	st.AddItem(ctx, ref(1, "10", ""), 3)

	items := st.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line after merge, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", items[0].Quantity)
	}
}

func TestAddItemFirstSeenFieldsWin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	st.AddItem(ctx, ref(1, "10", ""), 1)

	updated := ref(1, "99", "0.5")
	updated.Name = "renamed"
	st.AddItem(ctx, updated, 1)

	it := st.Items()[0]
	if !it.UnitPrice.Equal(dec(t, "10")) {
		t.Fatalf("expected first-seen price 10, got %s", it.UnitPrice)
	}
	if it.Name != "product" {
		t.Fatalf("expected first-seen name, got %q", it.Name)
	}
	if !it.Discount.IsZero() {
		t.Fatalf("expected first-seen discount, got %s", it.Discount)
	}
	if it.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", it.Quantity)
	}
}

func TestAddItemIgnoresNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	st.AddItem(ctx, ref(1, "10", ""), 0)
	st.AddItem(ctx, ref(1, "10", ""), -3)

	if !st.Empty() {
		t.Fatalf("expected cart to stay empty")
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	st.AddItem(ctx, ref(1, "10", ""), 1)
	st.AddItem(ctx, ref(2, "20", ""), 1)

	st.RemoveItem(ctx, 1)
	after := len(st.Items())

	st.RemoveItem(ctx, 1)
	if len(st.Items()) != after {
		t.Fatalf("second removal changed the cart: %d != %d", len(st.Items()), after)
	}
	if st.Items()[0].ProductID != 2 {
		t.Fatalf("wrong item removed")
	}
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	st.AddItem(ctx, ref(1, "10", ""), 1)
	st.SetQuantity(ctx, 1, 0)

	if !st.Empty() {
		t.Fatalf("expected item to be removed on zero quantity")
	}
}

func TestSetQuantityAbsentProductIsNoop(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	st.SetQuantity(ctx, 42, 3)

	if !st.Empty() {
		t.Fatalf("setting quantity must not create items")
	}
}

func TestSubtotalWithItemDiscount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	st.AddItem(ctx, ref(1, "10", ""), 2)
	st.AddItem(ctx, ref(2, "5", "0.5"), 1)

	if got := st.Subtotal(); !got.Equal(dec(t, "22.5")) {
		t.Fatalf("expected subtotal 22.5, got %s", got)
	}
}

func TestCouponRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	st.AddItem(ctx, ref(1, "100", ""), 1)

	if !st.ApplyCoupon(ctx, "save10") {
		t.Fatalf("expected save10 to match case-insensitively")
	}
	if st.Coupon() != "SAVE10" {
		t.Fatalf("expected canonical code SAVE10, got %q", st.Coupon())
	}
	if got := st.CouponDiscountAmount(); !got.Equal(dec(t, "10")) {
		t.Fatalf("expected discount 10, got %s", got)
	}

	if st.ApplyCoupon(ctx, "BOGUS") {
		t.Fatalf("expected BOGUS to be rejected")
	}
	if st.Coupon() != "SAVE10" {
		t.Fatalf("rejected code must leave prior coupon, got %q", st.Coupon())
	}

	st.RemoveCoupon(ctx)
	if st.Coupon() != "" {
		t.Fatalf("expected coupon cleared")
	}
	if !st.CouponDiscountAmount().IsZero() {
		t.Fatalf("expected zero discount after removal")
	}
}

func TestClearDropsItemsAndCoupon(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	st.AddItem(ctx, ref(1, "10", ""), 2)
	st.ApplyCoupon(ctx, "WELCOME")
	st.Clear(ctx)

	if !st.Empty() || st.Coupon() != "" || st.TotalItemCount() != 0 {
		t.Fatalf("expected a pristine cart after clear")
	}
}

func TestShippingFlatFee(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if !st.ShippingCost().IsZero() {
		t.Fatalf("empty cart must not ship")
	}

	st.AddItem(ctx, ref(1, "1", ""), 1)
	if got := st.ShippingCost(); !got.Equal(dec(t, "10")) {
		t.Fatalf("expected flat fee 10, got %s", got)
	}
}

func TestShippingFreeThreshold(t *testing.T) {
	rules, err := ParseRules("9.99", "100", "")
	if err != nil {
		t.Fatalf("parsing rules: %v", err)
	}

	ctx := context.Background()
	st := Open(ctx, cartmem.New(), "cart:test", rules, testLogger())

	st.AddItem(ctx, ref(1, "100", ""), 1)
	if got := st.ShippingCost(); !got.Equal(dec(t, "9.99")) {
		t.Fatalf("subtotal at the threshold still pays the fee, got %s", got)
	}

	st.AddItem(ctx, ref(2, "0.01", ""), 1)
	if !st.ShippingCost().IsZero() {
		t.Fatalf("expected free shipping above the threshold")
	}
}

func TestGrandTotalNeverNegative(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	ops := []func(){
		func() { st.AddItem(ctx, ref(1, "0.01", "0.9"), 1) },
		func() { st.ApplyCoupon(ctx, "FIRSTORDER") },
		func() { st.SetQuantity(ctx, 1, 5) },
		func() { st.RemoveItem(ctx, 99) },
		func() { st.SetQuantity(ctx, 1, 0) },
		func() { st.RemoveCoupon(ctx) },
		func() { st.Clear(ctx) },
	}

	for i, op := range ops {
		op()
		if st.GrandTotal().IsNegative() {
			t.Fatalf("grand total went negative after op %d", i)
		}
	}
}

func TestCheckoutGating(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if !st.Empty() {
		t.Fatalf("fresh cart must be empty")
	}

	st.AddItem(ctx, ref(1, "10", ""), 1)
	if st.Empty() {
		t.Fatalf("cart with a line must enable checkout")
	}

	st.SetQuantity(ctx, 1, 0)
	if !st.Empty() {
		t.Fatalf("emptying the last line must disable checkout")
	}
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	st.AddItem(ctx, ref(1, "20.00", ""), 3)
	if got := st.Subtotal(); !got.Equal(dec(t, "60")) {
		t.Fatalf("expected subtotal 60, got %s", got)
	}

	if !st.ApplyCoupon(ctx, "SAVE10") {
		t.Fatalf("expected SAVE10 to apply")
	}
	if got := st.CouponDiscountAmount(); !got.Equal(dec(t, "6")) {
		t.Fatalf("expected discount 6, got %s", got)
	}

	if got := st.ShippingCost(); !got.Equal(dec(t, "10")) {
		t.Fatalf("expected shipping 10, got %s", got)
	}
	if got := st.GrandTotal(); !got.Equal(dec(t, "64")) {
		t.Fatalf("expected grand total 64, got %s", got)
	}
}
