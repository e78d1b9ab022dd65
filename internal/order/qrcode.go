package order

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const DefaultQRSize = 256

// ReceiptQR encodes the order id and grand total as a PNG QR code.
func ReceiptQR(o Order, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(receiptPayload(o), qrcode.Medium, size)
}

func receiptPayload(o Order) string {
	return fmt.Sprintf("order:%s:%d", o.ID, o.Total)
}
