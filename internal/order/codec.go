package order

import (
	"encoding/json"
	"time"
)

// Persisted and wire shape of an order; timestamp is epoch milliseconds.
type itemRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"imageUrl"`
}

type orderRecord struct {
	ID         string       `json:"id"`
	Items      []itemRecord `json:"items"`
	NetTotal   int64        `json:"netTotal"`
	CGST       int64        `json:"cgst"`
	SGST       int64        `json:"sgst"`
	GrandTotal int64        `json:"grandTotal"`
	Timestamp  int64        `json:"timestamp"`
}

func (o Order) MarshalJSON() ([]byte, error) {
	rec := orderRecord{
		ID:         o.ID,
		Items:      make([]itemRecord, 0, len(o.Lines)),
		NetTotal:   o.Subtotal,
		CGST:       o.CGST,
		SGST:       o.SGST,
		GrandTotal: o.Total,
		Timestamp:  o.PlacedAt.UnixMilli(),
	}
	for _, l := range o.Lines {
		rec.Items = append(rec.Items, itemRecord{
			ID:       l.DishID,
			Name:     l.Name,
			Price:    l.UnitPrice,
			Quantity: l.Quantity,
			ImageURL: l.ImageURL,
		})
	}
	return json.Marshal(rec)
}

func (o *Order) UnmarshalJSON(b []byte) error {
	var rec orderRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	*o = Order{
		ID:       rec.ID,
		Lines:    make([]Line, 0, len(rec.Items)),
		Subtotal: rec.NetTotal,
		CGST:     rec.CGST,
		SGST:     rec.SGST,
		Total:    rec.GrandTotal,
		PlacedAt: time.UnixMilli(rec.Timestamp).UTC(),
	}
	for _, it := range rec.Items {
		o.Lines = append(o.Lines, Line{
			DishID:    it.ID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		})
	}
	return nil
}
