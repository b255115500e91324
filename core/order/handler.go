package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/e-commerce-shop/api/web"
	"github.com/irsalhamdi/e-commerce-shop/api/weberr"
	"github.com/irsalhamdi/e-commerce-shop/core/cart"
	"github.com/irsalhamdi/e-commerce-shop/database"
	"github.com/irsalhamdi/e-commerce-shop/storage"
	"github.com/irsalhamdi/e-commerce-shop/validate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// HandleCreate places an order for the session cart. The cart must be
// non-empty; it is cleared only after the order row is committed, so a
// failed insert leaves the cart untouched and the caller may retry.
func HandleCreate(db *sqlx.DB, sm *scs.SessionManager, blobs storage.Blobs, rules cart.Rules, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var no OrderNew
		if err := web.Decode(w, r, &no); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding order: %w", err))
		}

		if err := validate.Check(no); err != nil {
			return weberr.Unprocessable(err)
		}

		st := cart.SessionStore(ctx, sm, blobs, rules, log)
		if st.Empty() {
			err := errors.New("no items to checkout")
			return weberr.Unprocessable(err)
		}

		ord := Order{
			ID:          validate.GenerateID(),
			OrderID:     no.OrderID,
			BranchID:    no.BranchID,
			OrderDate:   no.OrderDate.UTC(),
			Name:        no.Name,
			Description: no.Description,
			Status:      Status(no.Status),
			CreatedAt:   time.Now().UTC(),
		}

		err := database.Transaction(db, func(tx sqlx.ExtContext) error {
			return Create(ctx, tx, ord)
		})
		if err != nil {
			return fmt.Errorf("placing order[%d]: %w", ord.OrderID, err)
		}

		st.Clear(ctx)

		return web.Respond(ctx, w, ord, http.StatusCreated)
	}
}

// HandleList returns all submitted orders.
func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		orders, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}

		return web.Respond(ctx, w, orders, http.StatusOK)
	}
}

// HandleShow returns one order by its public id.
func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.ParamInt(r, "id")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing order id: %w", err))
		}

		ord, err := Fetch(ctx, db, int64(id))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching order[%d]: %w", id, err)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}
