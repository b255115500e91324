package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// The persisted layout is shared with the storefront frontend, so the field
// names and plain JSON numbers are load-bearing.

type itemBlob struct {
	ProductID int      `json:"productId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	ImgName   string   `json:"imgName"`
	Discount  *float64 `json:"discount,omitempty"`
}

type stateBlob struct {
	Items          []itemBlob `json:"items"`
	CouponCode     *string    `json:"couponCode"`
	CouponDiscount float64    `json:"couponDiscountFraction"`
}

func encodeState(s State) ([]byte, error) {
	blob := stateBlob{
		Items:          make([]itemBlob, 0, len(s.Items)),
		CouponDiscount: s.CouponDiscount.InexactFloat64(),
	}

	if s.CouponCode != "" {
		code := s.CouponCode
		blob.CouponCode = &code
	}

	for _, it := range s.Items {
		ib := itemBlob{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.UnitPrice.InexactFloat64(),
			Quantity:  it.Quantity,
			ImgName:   it.ImageRef,
		}
		if !it.Discount.IsZero() {
			d := it.Discount.InexactFloat64()
			ib.Discount = &d
		}
		blob.Items = append(blob.Items, ib)
	}

	return json.Marshal(blob)
}

// decodeState rejects any blob that violates the cart invariants. Callers
// treat a decode error as "no saved cart".
func decodeState(b []byte) (State, error) {
	var blob stateBlob
	if err := json.Unmarshal(b, &blob); err != nil {
		return State{}, fmt.Errorf("unmarshaling cart blob: %w", err)
	}

	if blob.CouponDiscount < 0 || blob.CouponDiscount >= 1 {
		return State{}, fmt.Errorf("coupon discount fraction %v out of range", blob.CouponDiscount)
	}

	s := State{CouponDiscount: decimal.NewFromFloat(blob.CouponDiscount)}
	if blob.CouponCode != nil {
		s.CouponCode = *blob.CouponCode
	}

	seen := make(map[int]bool, len(blob.Items))
	for _, ib := range blob.Items {
		if ib.Quantity < 1 {
			return State{}, fmt.Errorf("item %d has quantity %d", ib.ProductID, ib.Quantity)
		}
		if ib.Price < 0 {
			return State{}, fmt.Errorf("item %d has negative price %v", ib.ProductID, ib.Price)
		}
		if seen[ib.ProductID] {
			return State{}, fmt.Errorf("duplicate item %d", ib.ProductID)
		}
		seen[ib.ProductID] = true

		it := LineItem{
			ProductID: ib.ProductID,
			Name:      ib.Name,
			UnitPrice: decimal.NewFromFloat(ib.Price),
			Quantity:  ib.Quantity,
			ImageRef:  ib.ImgName,
		}
		if ib.Discount != nil {
			if *ib.Discount < 0 || *ib.Discount >= 1 {
				return State{}, fmt.Errorf("item %d has discount fraction %v out of range", ib.ProductID, *ib.Discount)
			}
			it.Discount = decimal.NewFromFloat(*ib.Discount)
		}

		s.Items = append(s.Items, it)
	}

	return s, nil
}
