package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a discount code valid through ExpiresOn (a calendar date).
type Coupon struct {
	Code      string    `json:"code"`
	ExpiresOn time.Time `json:"expires_on"`
}

// CatalogItem is an internally curated gift suggestion.
type CatalogItem struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Link        string      `json:"link"`
	ImageURL    *string     `json:"image_url,omitempty"`
	PriceMin    float64     `json:"price_min"`
	PriceMax    float64     `json:"price_max"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
	Tags        []string    `json:"tags"`
	Priority    *int        `json:"priority,omitempty"`
	Coupon      *Coupon     `json:"coupon,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
