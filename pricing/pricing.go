// Package pricing computes ticket and food totals from the current selection
// and the last fetched catalog.
package pricing

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"

	"cinema-cli/model"
)

// TicketTotal is the hall price times the number of tickets.
func TicketTotal(show model.Show, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return show.Hall.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// FoodSelection maps a food item id to the requested quantity.
type FoodSelection map[int]int

// Set records qty for id, clamping negatives to zero.
func (s FoodSelection) Set(id int, qty int) {
	if qty < 0 {
		qty = 0
	}
	s[id] = qty
}

// Ids returns the ids with a positive quantity in ascending order.
func (s FoodSelection) Ids() []int {
	ids := maps.Keys(s)
	sort.Ints(ids)
	out := ids[:0]
	for _, id := range ids {
		if s[id] > 0 {
			out = append(out, id)
		}
	}
	return out
}

func (s FoodSelection) Empty() bool {
	return len(s.Ids()) == 0
}

// Line is one priced row of a food order.
type Line struct {
	Item     model.FoodItem
	Quantity int
	Subtotal decimal.Decimal
}

// FoodLines prices every selected item that exists in the inventory.
// Selected ids missing from the inventory are skipped.
func FoodLines(selection FoodSelection, inventory []model.FoodItem) []Line {
	byID := make(map[int]model.FoodItem, len(inventory))
	for _, item := range inventory {
		byID[item.Id] = item
	}
	var lines []Line
	for _, id := range selection.Ids() {
		item, ok := byID[id]
		if !ok {
			continue
		}
		qty := selection[id]
		lines = append(lines, Line{
			Item:     item,
			Quantity: qty,
			Subtotal: item.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	return lines
}

// FoodTotal sums price times quantity over the selected items.
func FoodTotal(selection FoodSelection, inventory []model.FoodItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range FoodLines(selection, inventory) {
		total = total.Add(line.Subtotal)
	}
	return total
}

// Amount renders a total as a JSON number for payment payloads.
func Amount(total decimal.Decimal) json.Number {
	return json.Number(total.String())
}

// Quote is a total tied to the catalog revision it was computed from. A
// catalog refresh bumps the revision, which invalidates every earlier quote.
type Quote struct {
	Total    decimal.Decimal
	Revision uint64
}

func (q Quote) Valid(revision uint64) bool {
	return q.Revision == revision
}
