package order

import "time"

// Line is a denormalized copy of a cart line at placement time.
type Line struct {
	DishID    string
	Name      string
	UnitPrice int64
	Quantity  int
	ImageURL  string
}

func (l Line) Amount() int64 { return l.UnitPrice * int64(l.Quantity) }

// Order is the immutable record of a placed cart. Totals are copied from the
// cart as they were, never recomputed.
type Order struct {
	ID       string
	Lines    []Line
	Subtotal int64
	CGST     int64
	SGST     int64
	Total    int64
	PlacedAt time.Time
}

const displayLayout = "Jan 02, 2006 15:04"

// FormattedTime renders PlacedAt for display in loc (local time when nil).
func (o Order) FormattedTime(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return o.PlacedAt.In(loc).Format(displayLayout)
}
