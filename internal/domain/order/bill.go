package order

import (
	"fmt"
	"strings"

	"github.com/tableside/restaurant-pos/internal/models"
)

const billWidth = 30

// RenderBill produces the printable text receipt for an order. Pure
// formatting: no state is read beyond the order and its preloaded
// staff/product associations.
func RenderBill(o *models.Order) string {
	var b strings.Builder

	rule := strings.Repeat("=", billWidth)
	thin := strings.Repeat("-", billWidth)

	b.WriteString(rule + "\n")
	b.WriteString(center("TABLESIDE  POS") + "\n")
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "Order #%d\n", o.ID)
	fmt.Fprintf(&b, "Date:  %s\n", o.OrderDate.UTC().Format("02 Jan 2006 15:04"))
	if o.Staff != nil {
		fmt.Fprintf(&b, "Staff: %s\n", o.Staff.Name)
	}
	b.WriteString("\n")

	for i := range o.Items {
		it := &o.Items[i]
		name := "?"
		if it.Product != nil {
			name = it.Product.Name
		}
		fmt.Fprintf(&b, "%s  x%d  -  %s\n", name, it.Quantity, Subtotal(it).StringFixed(2))
	}

	b.WriteString("\n" + thin + "\n")
	fmt.Fprintf(&b, "TOTAL: %s\n", o.TotalPrice.StringFixed(2))
	b.WriteString(rule + "\n")

	return b.String()
}

func center(s string) string {
	if len(s) >= billWidth {
		return s
	}
	pad := (billWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
