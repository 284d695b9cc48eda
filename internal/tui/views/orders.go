package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/sentinel/internal/cart"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// OrdersView shows the product catalogue with the cart, and the user's orders.
type OrdersView struct {
	*tview.Flex
	theme   *ui.Theme
	l       *i18n.Localizer
	loc     *time.Location
	catalog *tview.Table
	mine    *tview.TextView

	cart  *cart.Cart
	items []string // catalogue row -> item, "" for category rows
}

// NewOrdersView creates the orders screen around c.
func NewOrdersView(theme *ui.Theme, l *i18n.Localizer, loc *time.Location, c *cart.Cart) *OrdersView {
	catalog := tview.NewTable().SetSelectable(true, false)
	catalog.SetBorder(true)
	catalog.SetBorderColor(theme.BorderColor)
	catalog.SetBackgroundColor(theme.BgColor)
	catalog.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	catalog.SetTitleColor(theme.TitleColor)

	mine := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	mine.SetBorder(true)
	mine.SetBorderColor(theme.BorderColor)
	mine.SetBackgroundColor(theme.BgColor)
	mine.SetTextColor(theme.FgColor)
	mine.SetTitle(" " + l.T(i18n.OrdersMine) + " ")
	mine.SetTitleColor(theme.TitleColor)

	ov := &OrdersView{
		Flex:    tview.NewFlex().SetDirection(tview.FlexColumn),
		theme:   theme,
		l:       l,
		loc:     loc,
		catalog: catalog,
		mine:    mine,
		cart:    c,
	}
	ov.AddItem(catalog, 0, 1, true)
	ov.AddItem(mine, 0, 1, false)
	ov.renderCatalog()
	ov.UpdateOrders(nil)
	return ov
}

// Name implements Component.
func (ov *OrdersView) Name() string { return ov.l.T(i18n.OrdersTitle) }

// Hints implements Component.
func (ov *OrdersView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "+", Description: "More"},
		{Key: "-", Description: "Less"},
		{Key: "Enter", Description: ov.l.T(i18n.OrdersSubmit)},
	}
}

// Cart returns the cart the screen edits.
func (ov *OrdersView) Cart() *cart.Cart {
	return ov.cart
}

// SelectedItem returns the catalogue item under the cursor.
func (ov *OrdersView) SelectedItem() (string, bool) {
	row, _ := ov.catalog.GetSelection()
	if row < 0 || row >= len(ov.items) || ov.items[row] == "" {
		return "", false
	}
	return ov.items[row], true
}

// Change adds delta to the selected item and re-renders.
func (ov *OrdersView) Change(delta int) {
	item, ok := ov.SelectedItem()
	if !ok {
		return
	}
	ov.cart.Update(item, delta)
	ov.renderCatalog()
}

// Refresh re-renders the catalogue after the cart changed elsewhere.
func (ov *OrdersView) Refresh() {
	ov.renderCatalog()
}

func (ov *OrdersView) renderCatalog() {
	row, _ := ov.catalog.GetSelection()
	ov.catalog.Clear()
	ov.items = ov.items[:0]

	r := 0
	for _, cat := range cart.Catalog() {
		ov.catalog.SetCell(r, 0, tview.NewTableCell(" "+cat.Name).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold).
			SetTextColor(ov.theme.TableHeaderFg))
		ov.items = append(ov.items, "")
		r++
		for _, item := range cat.Items {
			qty := ov.cart.Quantity(item)
			color := ov.theme.MutedColor
			if qty > 0 {
				color = ov.theme.CounterColor
			}
			ov.catalog.SetCell(r, 0, tview.NewTableCell("   "+item).SetExpansion(1).SetTextColor(ov.theme.FgColor))
			ov.catalog.SetCell(r, 1, tview.NewTableCell(fmt.Sprintf(" − %d + ", qty)).SetAlign(tview.AlignRight).SetTextColor(color))
			ov.items = append(ov.items, item)
			r++
		}
	}
	if row <= 0 {
		row = 1
	}
	ov.catalog.Select(row, 0)

	title := fmt.Sprintf(" %s ", ov.l.T(i18n.OrdersAvailable))
	if total := ov.cart.Total(); total > 0 {
		title = fmt.Sprintf(" %s · %s · Enter: %s ", ov.l.T(i18n.OrdersAvailable), ov.l.ItemCount(total), ov.l.T(i18n.OrdersSubmit))
	}
	ov.catalog.SetTitle(title)
}

// UpdateOrders renders the user's orders, newest as returned by the backend.
func (ov *OrdersView) UpdateOrders(orders []client.Order) {
	ov.mine.Clear()
	_, _ = fmt.Fprint(ov.mine, renderOrders(orders, ov.theme, ov.l, ov.loc))
}

func renderOrders(orders []client.Order, theme *ui.Theme, l *i18n.Localizer, loc *time.Location) string {
	if len(orders) == 0 {
		return fmt.Sprintf("\n [%s]%s[-]", ui.Tag(theme.MutedColor), tview.Escape(l.T(i18n.OrdersEmpty)))
	}
	var b strings.Builder
	for _, o := range orders {
		status := l.OrderStatus(o.Status)
		fmt.Fprintf(&b, " [::b]%s %s[-:-:-]  [%s]%s[-]  [::d]%s[-:-:-]\n",
			clean(l.T(i18n.OrderLabel)), clean(o.OrderNumber),
			ui.Tag(orderColor(o.Status, theme)), clean(status),
			clockOf(o.CreatedDate, loc, l))
		fmt.Fprintf(&b, "   %s\n", clean(orderSummary(o.Items)))
		fmt.Fprintf(&b, "   [::d]%s[-:-:-]\n\n", clean(l.ItemCount(o.TotalItems)))
	}
	return b.String()
}

func orderColor(status string, theme *ui.Theme) tcell.Color {
	switch status {
	case client.OrderProcessing:
		return theme.FlashWarnColor
	case client.OrderReady:
		return theme.OnlineColor
	default:
		return theme.MutedColor
	}
}
