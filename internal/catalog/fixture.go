package catalog

import (
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

const imageBase = "https://github.com/shadcn-ui/ui/assets/124599/"

// Fixture is the catalog a fresh storefront starts with.
func Fixture() []domain.Product {
	return []domain.Product{
		{
			ID:          "product-1",
			Title:       "UI Templates Pack",
			Description: "A collection of premium UI templates for modern web design projects. Includes landing pages, dashboards, and e-commerce components.",
			Price:       decimal.RequireFromString("49.99"),
			Category:    "templates",
			Image:       imageBase + "5a79ea41-h0j2-ab12-a14b-f77b07cad220",
			Featured:    true,
			Tags:        []string{"UI", "templates", "web design"},
		},
		{
			ID:          "product-2",
			Title:       "Digital Marketing Course",
			Description: "Comprehensive digital marketing course covering SEO, social media marketing, content strategy, and paid advertising.",
			Price:       decimal.RequireFromString("79.99"),
			Category:    "courses",
			Image:       imageBase + "5a79ea41-h8c2-ab12-a14b-f77b07cad220",
			Featured:    true,
			Tags:        []string{"marketing", "course", "digital"},
		},
		{
			ID:          "product-3",
			Title:       "Stock Photo Bundle",
			Description: "Collection of 500+ high-resolution stock photos for commercial use. Includes nature, business, and lifestyle categories.",
			Price:       decimal.RequireFromString("39.99"),
			Category:    "assets",
			Image:       imageBase + "5a79ea41-h8c2-ab14-a14b-f77b07cad210",
			Featured:    false,
			Tags:        []string{"photos", "stock", "assets"},
		},
		{
			ID:          "product-4",
			Title:       "Video Editing Toolkit",
			Description: "Professional video editing toolkit with transitions, effects, and sound packs for content creators.",
			Price:       decimal.RequireFromString("59.99"),
			Category:    "tools",
			Image:       imageBase + "5a79ea41-h8c2-ab43-a14b-f77b07cad220",
			Featured:    true,
			Tags:        []string{"video", "editing", "toolkit"},
		},
		{
			ID:          "product-5",
			Title:       "Icon Library Pro",
			Description: "Professional icon library with 2000+ customizable vector icons in multiple formats and styles.",
			Price:       decimal.RequireFromString("29.99"),
			Category:    "assets",
			Image:       imageBase + "5a79ea41-h8c2-ab12-a14b-f77b07cad230",
			Featured:    false,
			Tags:        []string{"icons", "assets", "design"},
		},
		{
			ID:          "product-6",
			Title:       "Web Development Masterclass",
			Description: "Complete web development course covering front-end, back-end, and database technologies with real-world projects.",
			Price:       decimal.RequireFromString("89.99"),
			Category:    "courses",
			Image:       imageBase + "5a79ea41-h8c2-ab12-a14b-f77b07fad220",
			Featured:    true,
			Tags:        []string{"web development", "course", "coding"},
		},
	}
}
