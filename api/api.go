package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/e-commerce-shop/api/middleware"
	"github.com/irsalhamdi/e-commerce-shop/api/web"
	"github.com/irsalhamdi/e-commerce-shop/core/cart"
	"github.com/irsalhamdi/e-commerce-shop/core/order"
	"github.com/irsalhamdi/e-commerce-shop/core/product"
	"github.com/irsalhamdi/e-commerce-shop/rate"
	"github.com/irsalhamdi/e-commerce-shop/storage"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin    string
	Log           logrus.FieldLogger
	DB            *sqlx.DB
	Session       *scs.SessionManager
	CartBlobs     storage.Blobs
	CartRules     cart.Rules
	CouponLimiter *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	couponLimit := middleware.RateLimit(cfg.CouponLimiter, cart.SessionID(cfg.Session))

	a.Handle(http.MethodGet, "/products", product.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(cfg.DB))

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.Session, cfg.CartBlobs, cfg.CartRules, cfg.Log))
	a.Handle(http.MethodDelete, "/cart", cart.HandleClear(cfg.Session, cfg.CartBlobs, cfg.CartRules, cfg.Log))
	a.Handle(http.MethodPut, "/cart/items", cart.HandleAddItem(cfg.DB, cfg.Session, cfg.CartBlobs, cfg.CartRules, cfg.Log))
	a.Handle(http.MethodPut, "/cart/items/{product_id}", cart.HandleSetQuantity(cfg.Session, cfg.CartBlobs, cfg.CartRules, cfg.Log))
	a.Handle(http.MethodDelete, "/cart/items/{product_id}", cart.HandleDeleteItem(cfg.Session, cfg.CartBlobs, cfg.CartRules, cfg.Log))
	a.Handle(http.MethodPost, "/cart/coupon", cart.HandleApplyCoupon(cfg.Session, cfg.CartBlobs, cfg.CartRules, cfg.Log), couponLimit)
	a.Handle(http.MethodDelete, "/cart/coupon", cart.HandleRemoveCoupon(cfg.Session, cfg.CartBlobs, cfg.CartRules, cfg.Log))

	a.Handle(http.MethodPost, "/orders", order.HandleCreate(cfg.DB, cfg.Session, cfg.CartBlobs, cfg.CartRules, cfg.Log))
	a.Handle(http.MethodGet, "/orders", order.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/orders/{id}", order.HandleShow(cfg.DB))

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
