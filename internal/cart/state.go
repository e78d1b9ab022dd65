package cart

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/storefront/internal/catalog"
)

type Line struct {
	Dish     catalog.Dish `json:"dish"`
	Quantity int          `json:"quantity"`
}

func (l Line) Amount() int64 {
	return l.Dish.PriceMinorUnits * int64(l.Quantity)
}

// State is a snapshot of the cart. Subtotal, CGST, SGST and Total are always
// computed together from Lines.
type State struct {
	Lines    map[string]Line `json:"lines"`
	Sequence []string        `json:"sequence"` // dish ids in insertion order
	Subtotal int64           `json:"subtotal"`
	CGST     int64           `json:"cgst"`
	SGST     int64           `json:"sgst"`
	Total    int64           `json:"total"`
}

func (s State) IsEmpty() bool { return len(s.Lines) == 0 }

func (s State) clone() State {
	out := s
	out.Lines = maps.Clone(s.Lines)
	out.Sequence = slices.Clone(s.Sequence)
	return out
}

// OrderedLines returns the lines in the order dishes were first added.
func (s State) OrderedLines() []Line {
	out := make([]Line, 0, len(s.Sequence))
	for _, id := range s.Sequence {
		if l, ok := s.Lines[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

func (s State) ItemCount() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

// TaxPolicy holds the two independent tax rates applied to the subtotal.
type TaxPolicy struct {
	CGSTRate decimal.Decimal
	SGSTRate decimal.Decimal
}

// DefaultTax is 2.5% CGST plus 2.5% SGST.
var DefaultTax = TaxPolicy{
	CGSTRate: decimal.RequireFromString("0.025"),
	SGSTRate: decimal.RequireFromString("0.025"),
}

// Apply floors each component on its own rather than flooring the combined rate.
func (p TaxPolicy) Apply(subtotal int64) (cgst, sgst int64) {
	base := decimal.NewFromInt(subtotal)
	cgst = base.Mul(p.CGSTRate).Floor().IntPart()
	sgst = base.Mul(p.SGSTRate).Floor().IntPart()
	return cgst, sgst
}
