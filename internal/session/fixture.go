package session

import (
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

// FixtureUser is a compiled-in account. Password is compared in plaintext.
type FixtureUser struct {
	domain.User
	Password string
}

var fixtureCreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Fixture returns the built-in admin and regular accounts.
func Fixture() []FixtureUser {
	return []FixtureUser{
		{
			User: domain.User{
				ID:        "1",
				Email:     "admin@digitalstore.com",
				Name:      "Admin User",
				Role:      domain.RoleAdmin,
				CreatedAt: fixtureCreatedAt,
			},
			Password: "admin123",
		},
		{
			User: domain.User{
				ID:        "2",
				Email:     "user@digitalstore.com",
				Name:      "Regular User",
				Role:      domain.RoleUser,
				CreatedAt: fixtureCreatedAt,
			},
			Password: "user123",
		},
	}
}
