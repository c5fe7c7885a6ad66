package models

import "github.com/google/uuid"

// Category is a gift category with its matching keywords. Keywords are
// lower-cased, trimmed and deduplicated when written.
type Category struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Keywords []string  `json:"keywords"`
	Color    *string   `json:"color,omitempty"`
	Icon     *string   `json:"icon,omitempty"`
	IsActive bool      `json:"is_active"`
}

type GiftType struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}
