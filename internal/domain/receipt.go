package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceiptLine struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Receipt is what a completed checkout hands back to the caller.
type Receipt struct {
	OrderID   string          `json:"order_id"`
	PaymentID string          `json:"payment_id"`
	UserID    string          `json:"user_id,omitempty"`
	Lines     []ReceiptLine   `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// ReceiptLines captures cart lines at purchase time.
func ReceiptLines(lines []CartLine) ([]ReceiptLine, decimal.Decimal) {
	out := make([]ReceiptLine, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		out[i] = ReceiptLine{
			ProductID: l.Product.ID,
			Title:     l.Product.Title,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price,
		}
		total = total.Add(l.Subtotal())
	}
	return out, total
}

// MinorUnits converts an amount to the smallest currency unit (paise, cents).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
