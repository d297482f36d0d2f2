package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartLine_Subtotal(t *testing.T) {
	line := CartLine{Product: Product{Price: decimal.RequireFromString("49.99")}, Quantity: 2}
	assert.True(t, decimal.RequireFromString("99.98").Equal(line.Subtotal()))
}

func TestReceiptLines(t *testing.T) {
	lines := []CartLine{
		{Product: Product{ID: "product-1", Title: "UI Templates Pack", Price: decimal.RequireFromString("49.99")}, Quantity: 2},
		{Product: Product{ID: "product-5", Title: "Icon Library Pro", Price: decimal.RequireFromString("29.99")}, Quantity: 1},
	}

	out, total := ReceiptLines(lines)

	assert.Len(t, out, 2)
	assert.Equal(t, "product-1", out[0].ProductID)
	assert.Equal(t, 2, out[0].Quantity)
	assert.True(t, decimal.RequireFromString("129.97").Equal(total))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(9998), MinorUnits(decimal.RequireFromString("99.98")))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
	assert.Equal(t, int64(1001), MinorUnits(decimal.RequireFromString("10.005")))
}

func TestProductPatch_Apply(t *testing.T) {
	p := Product{ID: "product-1", Title: "Old", Price: decimal.NewFromInt(10), Tags: []string{"a"}, Category: "tools"}
	title := "New"
	price := decimal.NewFromInt(12)

	got := ProductPatch{Title: &title, Price: &price}.Apply(p)

	assert.Equal(t, "product-1", got.ID)
	assert.Equal(t, "New", got.Title)
	assert.True(t, price.Equal(got.Price))
	assert.Equal(t, "tools", got.Category, "unset fields keep prior values")
	assert.Equal(t, []string{"a"}, got.Tags)

	got = ProductPatch{Tags: []string{}}.Apply(p)
	assert.Empty(t, got.Tags, "a non-nil tag slice replaces the tags")
}

func TestProductInput_ProductCopiesTags(t *testing.T) {
	in := ProductInput{Title: "x", Tags: []string{"a"}}
	p := in.Product("product-9")
	in.Tags[0] = "changed"

	assert.Equal(t, "product-9", p.ID)
	assert.Equal(t, []string{"a"}, p.Tags)
}

func TestSeverity_Valid(t *testing.T) {
	assert.True(t, SeveritySuccess.Valid())
	assert.True(t, SeverityError.Valid())
	assert.False(t, Severity("fatal").Valid())
	assert.False(t, Severity("").Valid())
}
