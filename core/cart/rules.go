package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rules bundles the pricing policy injected into every cart: the valid
// coupon table and the shipping fee schedule. It is built once at startup
// from configuration and shared read-only.
type Rules struct {
	// Coupons maps upper-cased codes to discount fractions in [0,1).
	Coupons map[string]decimal.Decimal

	// ShippingFee is charged whenever the cart is non-empty, unless the
	// free-shipping threshold applies.
	ShippingFee decimal.Decimal

	// FreeThreshold waives the fee when the subtotal exceeds it.
	// Zero disables the free tier.
	FreeThreshold decimal.Decimal
}

// CouponDiscount resolves a code case-insensitively.
func (r Rules) CouponDiscount(code string) (decimal.Decimal, bool) {
	frac, ok := r.Coupons[strings.ToUpper(strings.TrimSpace(code))]
	return frac, ok
}

// CanonicalCode is the form a matched code is stored under.
func (r Rules) CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Shipping returns zero for an empty cart, zero above the free threshold
// when one is configured, and the flat fee otherwise.
func (r Rules) Shipping(subtotal decimal.Decimal, empty bool) decimal.Decimal {
	if empty {
		return decimal.Decimal{}
	}
	if !r.FreeThreshold.IsZero() && subtotal.GreaterThan(r.FreeThreshold) {
		return decimal.Decimal{}
	}
	return r.ShippingFee
}

// ParseRules builds Rules from their configuration encoding. Coupons are
// given as "CODE:fraction" pairs separated by semicolons, for example
// "SAVE10:0.10;WELCOME:0.05".
func ParseRules(shippingFee, freeThreshold, coupons string) (Rules, error) {
	fee, err := decimal.NewFromString(shippingFee)
	if err != nil {
		return Rules{}, fmt.Errorf("parsing shipping fee %q: %w", shippingFee, err)
	}
	if fee.IsNegative() {
		return Rules{}, fmt.Errorf("shipping fee %q is negative", shippingFee)
	}

	thr, err := decimal.NewFromString(freeThreshold)
	if err != nil {
		return Rules{}, fmt.Errorf("parsing free shipping threshold %q: %w", freeThreshold, err)
	}
	if thr.IsNegative() {
		return Rules{}, fmt.Errorf("free shipping threshold %q is negative", freeThreshold)
	}

	table := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(coupons, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		code, val, found := strings.Cut(pair, ":")
		if !found {
			return Rules{}, fmt.Errorf("coupon entry %q is not CODE:fraction", pair)
		}

		frac, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return Rules{}, fmt.Errorf("parsing coupon %q: %w", pair, err)
		}
		if frac.IsNegative() || frac.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return Rules{}, fmt.Errorf("coupon %q: fraction must be in [0,1)", pair)
		}

		table[strings.ToUpper(strings.TrimSpace(code))] = frac
	}

	return Rules{
		Coupons:       table,
		ShippingFee:   fee,
		FreeThreshold: thr,
	}, nil
}
