package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog entry. Discount, when present, is a per-item
// markdown fraction in [0,1).
type Product struct {
	ID          int                 `db:"product_id"`
	Name        string              `db:"name"`
	Description string              `db:"description"`
	Price       decimal.Decimal     `db:"price"`
	ImgName     string              `db:"img_name"`
	SKU         string              `db:"sku"`
	Unit        string              `db:"unit"`
	SupplierID  int                 `db:"supplier_id"`
	Discount    decimal.NullDecimal `db:"discount"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`
}
