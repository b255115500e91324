package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/e-commerce-shop/api/web"
	"github.com/irsalhamdi/e-commerce-shop/api/weberr"
	"github.com/irsalhamdi/e-commerce-shop/core/product"
	"github.com/irsalhamdi/e-commerce-shop/random"
	"github.com/irsalhamdi/e-commerce-shop/storage"
	"github.com/irsalhamdi/e-commerce-shop/validate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const sessionKey = "cart_id"

// SessionStore opens the cart bound to the caller's session, minting a cart
// ID into the session on first use.
func SessionStore(ctx context.Context, sm *scs.SessionManager, blobs storage.Blobs, rules Rules, log logrus.FieldLogger) *Store {
	id := sm.GetString(ctx, sessionKey)
	if id == "" {
		id = random.String(20)
		sm.Put(ctx, sessionKey, id)
	}

	return Open(ctx, blobs, "cart:"+id, rules, log)
}

// SessionID returns the caller's cart ID, minting one on first use. The
// coupon rate limiter keys on it.
func SessionID(sm *scs.SessionManager) func(ctx context.Context) string {
	return func(ctx context.Context) string {
		id := sm.GetString(ctx, sessionKey)
		if id == "" {
			id = random.String(20)
			sm.Put(ctx, sessionKey, id)
		}
		return id
	}
}

type ItemResponse struct {
	ProductID int      `json:"productId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	ImgName   string   `json:"imgName"`
	Discount  *float64 `json:"discount,omitempty"`
	LineTotal float64  `json:"lineTotal"`
}

type Response struct {
	Items           []ItemResponse `json:"items"`
	TotalItems      int            `json:"totalItems"`
	CouponCode      *string        `json:"couponCode"`
	Subtotal        float64        `json:"subtotal"`
	CouponDiscount  float64        `json:"couponDiscount"`
	Shipping        float64        `json:"shipping"`
	Total           float64        `json:"total"`
	CheckoutEnabled bool           `json:"checkoutEnabled"`
}

// buildResponse renders the cart with money rounded to cents at the edge.
func buildResponse(st *Store) Response {
	resp := Response{
		Items:           make([]ItemResponse, 0, len(st.Items())),
		TotalItems:      st.TotalItemCount(),
		Subtotal:        st.Subtotal().Round(2).InexactFloat64(),
		CouponDiscount:  st.CouponDiscountAmount().Round(2).InexactFloat64(),
		Shipping:        st.ShippingCost().Round(2).InexactFloat64(),
		Total:           st.GrandTotal().Round(2).InexactFloat64(),
		CheckoutEnabled: !st.Empty(),
	}

	if code := st.Coupon(); code != "" {
		resp.CouponCode = &code
	}

	for _, it := range st.Items() {
		ir := ItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.UnitPrice.Round(2).InexactFloat64(),
			Quantity:  it.Quantity,
			ImgName:   it.ImageRef,
			LineTotal: it.LineTotal().Round(2).InexactFloat64(),
		}
		if !it.Discount.IsZero() {
			d := it.Discount.InexactFloat64()
			ir.Discount = &d
		}
		resp.Items = append(resp.Items, ir)
	}

	return resp
}

// HandleShow returns the cart with its computed summary.
func HandleShow(sm *scs.SessionManager, blobs storage.Blobs, rules Rules, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st := SessionStore(ctx, sm, blobs, rules, log)
		return web.Respond(ctx, w, buildResponse(st), http.StatusOK)
	}
}

// HandleAddItem resolves the product from the catalog and merges it into
// the cart.
func HandleAddItem(db *sqlx.DB, sm *scs.SessionManager, blobs storage.Blobs, rules Rules, log logrus.FieldLogger) web.Handler {
	type request struct {
		ProductID int `json:"productId" validate:"required"`
		Quantity  int `json:"quantity" validate:"required,gt=0"`
	}

	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req request
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding add-item request: %w", err))
		}

		if err := validate.Check(req); err != nil {
			return weberr.Unprocessable(err)
		}

		p, err := product.Fetch(ctx, db, req.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%d]: %w", req.ProductID, err)
		}

		ref := ProductRef{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			ImageRef:  p.ImgName,
		}
		if p.Discount.Valid {
			ref.Discount = p.Discount.Decimal
		}

		st := SessionStore(ctx, sm, blobs, rules, log)
		st.AddItem(ctx, ref, req.Quantity)

		return web.Respond(ctx, w, buildResponse(st), http.StatusOK)
	}
}

// HandleSetQuantity replaces a line's quantity; zero or below removes it.
func HandleSetQuantity(sm *scs.SessionManager, blobs storage.Blobs, rules Rules, log logrus.FieldLogger) web.Handler {
	type request struct {
		Quantity int `json:"quantity"`
	}

	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID, err := web.ParamInt(r, "product_id")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		var req request
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding quantity request: %w", err))
		}

		st := SessionStore(ctx, sm, blobs, rules, log)
		st.SetQuantity(ctx, productID, req.Quantity)

		return web.Respond(ctx, w, buildResponse(st), http.StatusOK)
	}
}

// HandleDeleteItem removes a line. Removing an absent product still
// responds 200 with the unchanged cart.
func HandleDeleteItem(sm *scs.SessionManager, blobs storage.Blobs, rules Rules, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID, err := web.ParamInt(r, "product_id")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		st := SessionStore(ctx, sm, blobs, rules, log)
		st.RemoveItem(ctx, productID)

		return web.Respond(ctx, w, buildResponse(st), http.StatusOK)
	}
}

// HandleClear empties the cart and its coupon state.
func HandleClear(sm *scs.SessionManager, blobs storage.Blobs, rules Rules, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st := SessionStore(ctx, sm, blobs, rules, log)
		st.Clear(ctx)

		return web.Respond(ctx, w, buildResponse(st), http.StatusOK)
	}
}

// HandleApplyCoupon validates a code against the injected table.
func HandleApplyCoupon(sm *scs.SessionManager, blobs storage.Blobs, rules Rules, log logrus.FieldLogger) web.Handler {
	type request struct {
		Code string `json:"code" validate:"required"`
	}

	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req request
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding coupon request: %w", err))
		}

		if err := validate.Check(req); err != nil {
			return weberr.Unprocessable(err)
		}

		st := SessionStore(ctx, sm, blobs, rules, log)
		if !st.ApplyCoupon(ctx, req.Code) {
			err := errors.New("invalid coupon code")
			return weberr.Unprocessable(err)
		}

		return web.Respond(ctx, w, buildResponse(st), http.StatusOK)
	}
}

// HandleRemoveCoupon clears the active coupon unconditionally.
func HandleRemoveCoupon(sm *scs.SessionManager, blobs storage.Blobs, rules Rules, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st := SessionStore(ctx, sm, blobs, rules, log)
		st.RemoveCoupon(ctx)

		return web.Respond(ctx, w, buildResponse(st), http.StatusOK)
	}
}
