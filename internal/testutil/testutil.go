// Package testutil provides fixtures and assertions shared by package tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/giftmatch/internal/models"
)

// NewRedis starts an in-memory redis for the test and returns a client bound
// to it. Both are closed on cleanup.
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// Category builds an active category.
func Category(name string, keywords ...string) models.Category {
	if keywords == nil {
		keywords = []string{}
	}
	return models.Category{ID: uuid.New(), Name: name, Keywords: keywords, IsActive: true}
}

// CatalogItem builds an internal catalog item priced at price and linked to
// the given categories.
func CatalogItem(name string, price float64, categories ...models.Category) models.CatalogItem {
	ids := make([]uuid.UUID, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return models.CatalogItem{
		ID:          uuid.New(),
		Name:        name,
		Link:        "https://loja.example/" + slug(name),
		PriceMin:    price,
		PriceMax:    price,
		CategoryIDs: ids,
		Tags:        []string{},
	}
}

// ExternalProducts builds provider results priced 50, 51, ... in order.
func ExternalProducts(names ...string) []models.ExternalProduct {
	out := make([]models.ExternalProduct, 0, len(names))
	for i, name := range names {
		price := float64(50 + i)
		out = append(out, models.ExternalProduct{
			Name:         name,
			PriceDisplay: fmt.Sprintf("R$ %d,00", 50+i),
			PriceValue:   &price,
			Link:         "https://shop.example/" + slug(name),
			Store:        "Loja X",
		})
	}
	return out
}

func slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}

// AssertStatusCode checks if the response has the expected status code.
func AssertStatusCode(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// AssertJSONContains checks if the JSON response contains expected key-value pairs.
func AssertJSONContains(t *testing.T, body []byte, key string, expected interface{}) {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if result[key] != expected {
		t.Errorf("expected %s to be %v, got %v", key, expected, result[key])
	}
}
