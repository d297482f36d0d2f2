package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Featured    bool            `json:"featured"`
	Tags        []string        `json:"tags"`
}

// ProductInput carries everything but the id, which the catalog assigns.
type ProductInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Featured    bool            `json:"featured"`
	Tags        []string        `json:"tags"`
}

// ProductPatch is a partial update. Nil fields keep their previous value.
type ProductPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Featured    *bool            `json:"featured,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
}

// Apply returns a copy of p with the patch merged in. The id never changes.
func (patch ProductPatch) Apply(p Product) Product {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Tags != nil {
		p.Tags = append([]string(nil), patch.Tags...)
	}
	return p
}

func (in ProductInput) Product(id string) Product {
	return Product{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		Featured:    in.Featured,
		Tags:        append([]string(nil), in.Tags...),
	}
}
