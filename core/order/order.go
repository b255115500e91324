package order

import "time"

type Status string

const (
	Pending Status = "pending"
	Success Status = "success"
	Expired Status = "expired"
)

// Order is the flat record the storefront submits at checkout. OrderID is
// the client-minted public identifier; ID is the internal key.
type Order struct {
	ID          string    `json:"-" db:"id"`
	OrderID     int64     `json:"orderId" db:"order_id"`
	BranchID    int       `json:"branchId" db:"branch_id"`
	OrderDate   time.Time `json:"orderDate" db:"order_date"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type OrderNew struct {
	OrderID     int64     `json:"orderId" validate:"required,gt=0"`
	BranchID    int       `json:"branchId" validate:"required,gt=0"`
	OrderDate   time.Time `json:"orderDate" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Status      string    `json:"status" validate:"required,oneof=pending success expired"`
}
