package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Source values reported per result and per page.
const (
	SourceInternal = "interna"
	SourceExternal = "externa"
	SourceMixed    = "mista"
)

// CouponExpired is the only non-null coupon status.
const CouponExpired = "expired"

// ExternalProduct is one product returned by the shopping search provider.
// It has no persistent id.
type ExternalProduct struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ImageURL     *string  `json:"image_url,omitempty"`
	PriceDisplay string   `json:"price_display"`
	PriceValue   *float64 `json:"price_value,omitempty"`
	Link         string   `json:"link"`
	Store        string   `json:"store"`
}

// Price renders as a JSON number when the amount is known and as the display
// string otherwise.
type Price struct {
	Amount  *float64
	Display string
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.Amount != nil {
		return json.Marshal(*p.Amount)
	}
	if p.Display != "" {
		return json.Marshal(p.Display)
	}
	return []byte("null"), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = Price{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price{Display: s}
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("price must be a number or string: %w", err)
		}
		*p = Price{Amount: &f}
	}
	return nil
}

// SuggestionResult is the unified shape returned for both internal and
// external suggestions.
type SuggestionResult struct {
	ID           string   `json:"id"`
	Name         string   `json:"nome"`
	Description  string   `json:"descricao"`
	Link         string   `json:"link"`
	Image        *string  `json:"imagem"`
	Price        Price    `json:"preco"`
	Priority     *int     `json:"prioridade"`
	Category     *string  `json:"categoria"`
	Tags         []string `json:"tags"`
	Source       string   `json:"fonte"`
	Coupon       *string  `json:"cupom"`
	CouponUntil  *string  `json:"validadeCupom"`
	CouponExpiry *string  `json:"statusCupom"`
	Store        *string  `json:"loja,omitempty"`

	// Score is the internal relevance; never serialized.
	Score float64 `json:"-"`
}

type Pagination struct {
	Page         int `json:"pagina_atual"`
	TotalPages   int `json:"total_paginas"`
	TotalResults int `json:"total_resultados"`
}

// SuggestionPage is the envelope returned by the suggestions endpoint.
type SuggestionPage struct {
	Source     string             `json:"fonte"`
	Results    []SuggestionResult `json:"resultados"`
	Pagination Pagination         `json:"paginacao"`
	Warning    string             `json:"aviso,omitempty"`
}
