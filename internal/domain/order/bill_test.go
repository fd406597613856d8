package order

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tableside/restaurant-pos/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeTotal(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: 2, PriceAtTime: d("9.50")},
		{Quantity: 3, PriceAtTime: d("1.25")},
	}

	total := ComputeTotal(items)
	if !total.Equal(d("22.75")) {
		t.Fatalf("total = %s, want 22.75", total)
	}
}

func TestComputeTotalEmpty(t *testing.T) {
	if total := ComputeTotal(nil); !total.Equal(decimal.Zero) {
		t.Fatalf("total = %s, want 0", total)
	}
}

func TestSubtotal(t *testing.T) {
	it := models.OrderItem{Quantity: 4, PriceAtTime: d("2.30")}
	if got := Subtotal(&it); !got.Equal(d("9.20")) {
		t.Fatalf("subtotal = %s, want 9.20", got)
	}
}

func TestSnapshotKeepsCurrentPrice(t *testing.T) {
	p := models.Product{ID: 7, Price: d("9.50")}

	line := Snapshot(&p, 2)
	if line.ProductID != 7 || line.Quantity != 2 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if !line.PriceAtTime.Equal(d("9.50")) {
		t.Fatalf("price_at_time = %s, want 9.50", line.PriceAtTime)
	}

	// Snapshot is decoupled from later price changes.
	p.Price = d("11.00")
	if !line.PriceAtTime.Equal(d("9.50")) {
		t.Fatalf("price_at_time changed after product price update")
	}
}

func TestRenderBill(t *testing.T) {
	pizza := models.Product{Name: "Pizza"}
	soda := models.Product{Name: "Soda"}

	o := models.Order{
		ID:        12,
		OrderDate: time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		Staff:     &models.User{Name: "Alice"},
		Items: []models.OrderItem{
			{Product: &pizza, Quantity: 2, PriceAtTime: d("9.50")},
			{Product: &soda, Quantity: 3, PriceAtTime: d("1.25")},
		},
		TotalPrice: d("22.75"),
	}

	bill := RenderBill(&o)

	for _, want := range []string{
		"Order #12",
		"Date:  14 Mar 2026 18:30",
		"Staff: Alice",
		"Pizza  x2  -  19.00",
		"Soda  x3  -  3.75",
		"TOTAL: 22.75",
	} {
		if !strings.Contains(bill, want) {
			t.Errorf("bill missing %q:\n%s", want, bill)
		}
	}
}
