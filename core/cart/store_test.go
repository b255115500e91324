package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/e-commerce-shop/storage/cartmem"
	"github.com/shopspring/decimal"
)

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := cartmem.New()
	rules := testRules(t)

	st := Open(ctx, blobs, "cart:rt", rules, testLogger())
	st.AddItem(ctx, ref(1, "19.99", ""), 2)
	st.AddItem(ctx, ref(2, "5", "0.25"), 1)
	st.ApplyCoupon(ctx, "SAVE10")

	reloaded := Open(ctx, blobs, "cart:rt", rules, testLogger())

	opt := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(st.state, reloaded.state, opt); diff != "" {
		t.Fatalf("reloaded cart differs (-want +got):\n%s", diff)
	}
}

func TestMissingBlobStartsEmpty(t *testing.T) {
	st := Open(context.Background(), cartmem.New(), "cart:none", testRules(t), testLogger())

	if !st.Empty() || st.Coupon() != "" {
		t.Fatalf("expected an empty cart for a missing blob")
	}
}

func TestMalformedBlobStartsEmpty(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"items": [`,
		"zero quantity":      `{"items":[{"productId":1,"name":"x","price":10,"quantity":0,"imgName":""}],"couponCode":null,"couponDiscountFraction":0}`,
		"negative price":     `{"items":[{"productId":1,"name":"x","price":-1,"quantity":1,"imgName":""}],"couponCode":null,"couponDiscountFraction":0}`,
		"duplicate product":  `{"items":[{"productId":1,"name":"x","price":1,"quantity":1,"imgName":""},{"productId":1,"name":"x","price":1,"quantity":1,"imgName":""}],"couponCode":null,"couponDiscountFraction":0}`,
		"discount too large": `{"items":[{"productId":1,"name":"x","price":1,"quantity":1,"imgName":"","discount":1.5}],"couponCode":null,"couponDiscountFraction":0}`,
		"coupon fraction":    `{"items":[],"couponCode":"SAVE10","couponDiscountFraction":2}`,
	}

	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			blobs := cartmem.New()
			if err := blobs.Set(ctx, "cart:bad", []byte(blob)); err != nil {
				t.Fatalf("seeding blob: %v", err)
			}

			st := Open(ctx, blobs, "cart:bad", testRules(t), testLogger())
			if !st.Empty() || st.Coupon() != "" {
				t.Fatalf("malformed blob must yield an empty cart")
			}
		})
	}
}

func TestBlobLayout(t *testing.T) {
	ctx := context.Background()
	blobs := cartmem.New()

	st := Open(ctx, blobs, "cart:layout", testRules(t), testLogger())
	st.AddItem(ctx, ref(7, "12.5", "0.1"), 3)
	st.ApplyCoupon(ctx, "WELCOME")

	b, err := blobs.Get(ctx, "cart:layout")
	if err != nil {
		t.Fatalf("reading persisted blob: %v", err)
	}

	want := `{"items":[{"productId":7,"name":"product","price":12.5,"quantity":3,"imgName":"product.jpg","discount":0.1}],"couponCode":"WELCOME","couponDiscountFraction":0.05}`
	if string(b) != want {
		t.Fatalf("unexpected blob layout:\n got %s\nwant %s", b, want)
	}
}

type failingBlobs struct {
	err error
}

func (f failingBlobs) Get(ctx context.Context, key string) ([]byte, error) { return nil, f.err }
func (f failingBlobs) Set(ctx context.Context, key string, blob []byte) error {
	return f.err
}
func (f failingBlobs) Del(ctx context.Context, key string) error { return f.err }

func TestWriteFailureKeepsStateAuthoritative(t *testing.T) {
	ctx := context.Background()
	blobs := failingBlobs{err: errors.New("storage unavailable")}

	st := Open(ctx, blobs, "cart:fail", testRules(t), testLogger())
	st.AddItem(ctx, ref(1, "10", ""), 2)
	st.ApplyCoupon(ctx, "SAVE10")

	if st.TotalItemCount() != 2 {
		t.Fatalf("in-memory state must survive write failures")
	}
	if st.Coupon() != "SAVE10" {
		t.Fatalf("coupon must survive write failures")
	}
	if got := st.GrandTotal(); !got.Equal(dec(t, "28")) {
		t.Fatalf("expected grand total 28, got %s", got)
	}
}
