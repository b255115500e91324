package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/irsalhamdi/e-commerce-shop/api/web"
	"github.com/irsalhamdi/e-commerce-shop/api/weberr"
	"github.com/irsalhamdi/e-commerce-shop/rate"
)

// RateLimit throttles a route per caller. The key func extracts the caller
// identity from the request context.
func RateLimit(lim *rate.Limiter, key func(ctx context.Context) string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !lim.Check(key(ctx)) {
				err := errors.New("rate limit exceeded")
				return weberr.NewError(err, "too many attempts, slow down", http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
