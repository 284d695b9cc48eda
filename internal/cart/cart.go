package cart

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/matheus3301/sentinel/internal/client"
)

// ErrEmpty is returned when an order is built from a cart with no items.
var ErrEmpty = errors.New("cart is empty")

// Category groups the products that can be ordered.
type Category struct {
	ID    string
	Name  string
	Items []string
}

// Catalog returns the orderable products in display order.
func Catalog() []Category {
	return []Category{
		{ID: "water", Name: "Вода", Items: []string{"0.5л", "1л", "1.5л", "5л"}},
		{ID: "cigarettes", Name: "Сигареты", Items: []string{"Kent", "Marlboro", "Winston", "Parliament"}},
		{ID: "stimulants", Name: "Стимуляторы", Items: []string{"Кофеин", "Энергетик", "Витамины"}},
	}
}

// Cart tracks per-item quantities. Quantities never drop below zero.
// A Cart is owned by one goroutine.
type Cart struct {
	qty   map[string]int
	order []string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{qty: make(map[string]int)}
}

// Update changes item's quantity by delta, clamped at zero, and returns the new quantity.
func (c *Cart) Update(item string, delta int) int {
	if _, seen := c.qty[item]; !seen {
		c.order = append(c.order, item)
	}
	c.qty[item] = max(0, c.qty[item]+delta)
	return c.qty[item]
}

func (c *Cart) Inc(item string) int { return c.Update(item, 1) }
func (c *Cart) Dec(item string) int { return c.Update(item, -1) }

// Quantity returns the current quantity of item.
func (c *Cart) Quantity(item string) int {
	return c.qty[item]
}

// Total is the sum of all quantities.
func (c *Cart) Total() int {
	total := 0
	for _, n := range c.qty {
		total += n
	}
	return total
}

// CanSubmit reports whether the cart holds anything.
func (c *Cart) CanSubmit() bool {
	return c.Total() > 0
}

// Items lists entries with a positive quantity in the order they were first touched.
func (c *Cart) Items() []client.OrderItem {
	var items []client.OrderItem
	for _, name := range c.order {
		if n := c.qty[name]; n > 0 {
			items = append(items, client.OrderItem{ProductName: name, Quantity: n})
		}
	}
	return items
}

// Order builds the create-order payload.
func (c *Cart) Order(number string) (client.OrderCreate, error) {
	items := c.Items()
	if len(items) == 0 {
		return client.OrderCreate{}, ErrEmpty
	}
	return client.OrderCreate{
		OrderNumber: number,
		Status:      client.OrderProcessing,
		Items:       items,
		TotalItems:  c.Total(),
	}, nil
}

// Reset empties the cart after a successful submit.
func (c *Cart) Reset() {
	c.qty = make(map[string]int)
	c.order = nil
}

// NumberFunc generates order numbers.
type NumberFunc func() string

// RandomOrderNumber returns "#" followed by a number in [1000, 9999].
func RandomOrderNumber() string {
	return formatNumber(rand.IntN(9000))
}

// SeededNumbers returns a deterministic NumberFunc, for tests and demos.
func SeededNumbers(seed uint64) NumberFunc {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() string {
		return formatNumber(r.IntN(9000))
	}
}

func formatNumber(n int) string {
	return fmt.Sprintf("#%d", 1000+n)
}
