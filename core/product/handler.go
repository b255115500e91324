package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/e-commerce-shop/api/web"
	"github.com/irsalhamdi/e-commerce-shop/api/weberr"
	"github.com/jmoiron/sqlx"
)

type response struct {
	ProductID   int      `json:"productId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImgName     string   `json:"imgName"`
	SKU         string   `json:"sku"`
	Unit        string   `json:"unit"`
	SupplierID  int      `json:"supplierId"`
	Discount    *float64 `json:"discount,omitempty"`
}

func toResponse(p Product) response {
	resp := response{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.Round(2).InexactFloat64(),
		ImgName:     p.ImgName,
		SKU:         p.SKU,
		Unit:        p.Unit,
		SupplierID:  p.SupplierID,
	}
	if p.Discount.Valid {
		d := p.Discount.Decimal.InexactFloat64()
		resp.Discount = &d
	}
	return resp
}

// HandleList returns the full catalog.
func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		products, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing products: %w", err)
		}

		resp := make([]response, 0, len(products))
		for _, p := range products {
			resp = append(resp, toResponse(p))
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

// HandleShow returns a single product.
func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.ParamInt(r, "id")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing product id: %w", err))
		}

		p, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%d]: %w", id, err)
		}

		return web.Respond(ctx, w, toResponse(p), http.StatusOK)
	}
}
