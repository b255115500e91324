package test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

type orderTest struct {
	*cartTest
}

type orderResponse struct {
	OrderID     int64     `json:"orderId"`
	BranchID    int       `json:"branchId"`
	OrderDate   time.Time `json:"orderDate"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (ot *orderTest) orderBody(orderID int64) map[string]interface{} {
	return map[string]interface{}{
		"orderId":     orderID,
		"branchId":    1,
		"orderDate":   time.Now().UTC().Format(time.RFC3339),
		"name":        "Customer Order",
		"description": "Order with 2 product(s)",
		"status":      "pending",
	}
}

func TestOrder(t *testing.T) {
	env, err := NewTestEnv(t, "order_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}
	ot := &orderTest{&cartTest{env}}

	// Checkout is gated on a non-empty cart.
	w := ot.do(t, http.MethodPost, "/orders", ot.orderBody(1001))
	w.Body.Close()
	if w.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an empty-cart checkout, got %s", w.Status)
	}

	ot.addItemOK(t, 1, 2)
	ot.cartOK(t, http.MethodPost, "/cart/coupon", map[string]string{"code": "SAVE10"})

	w = ot.do(t, http.MethodPost, "/orders", ot.orderBody(1001))
	defer w.Body.Close()
	if w.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %s", w.Status)
	}

	var created orderResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decoding created order: %v", err)
	}
	if created.OrderID != 1001 || created.Name != "Customer Order" || created.Status != "pending" {
		t.Fatalf("unexpected created order: %+v", created)
	}

	// A successful order empties the cart, coupon included.
	resp := ot.cartOK(t, http.MethodGet, "/cart", nil)
	if len(resp.Items) != 0 || resp.CouponCode != nil || resp.CheckoutEnabled {
		t.Fatalf("expected the cart cleared after checkout, got %+v", resp)
	}

	// The created order is listed and fetchable by its public id.
	w = ot.do(t, http.MethodGet, "/orders", nil)
	defer w.Body.Close()
	if w.StatusCode != http.StatusOK {
		t.Fatalf("listing orders: %s", w.Status)
	}
	var orders []orderResponse
	if err := json.NewDecoder(w.Body).Decode(&orders); err != nil {
		t.Fatalf("decoding orders: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderID != 1001 {
		t.Fatalf("unexpected order list: %+v", orders)
	}

	w = ot.do(t, http.MethodGet, "/orders/1001", nil)
	defer w.Body.Close()
	if w.StatusCode != http.StatusOK {
		t.Fatalf("fetching order: %s", w.Status)
	}

	w = ot.do(t, http.MethodGet, "/orders/999999", nil)
	w.Body.Close()
	if w.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown order, got %s", w.Status)
	}

	// Invalid payloads never touch the cart.
	ot.addItemOK(t, 1, 1)
	bad := ot.orderBody(1002)
	delete(bad, "name")
	w = ot.do(t, http.MethodPost, "/orders", bad)
	w.Body.Close()
	if w.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an invalid order, got %s", w.Status)
	}
	resp = ot.cartOK(t, http.MethodGet, "/cart", nil)
	if len(resp.Items) != 1 {
		t.Fatalf("a failed order must leave the cart untouched, got %+v", resp)
	}
}
