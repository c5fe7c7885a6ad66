package shopping

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HammerMeetNail/giftmatch/internal/config"
)

func newTestClient(baseURL string) *SerpAPIClient {
	return NewSerpAPIClient(config.ShoppingConfig{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		Timeout:  time.Second,
		Location: "Brazil",
		Country:  "br",
		Language: "pt-br",
	})
}

func TestSerpAPIClient_Search(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("engine") != "google_shopping" || q.Get("api_key") != "test-key" {
			t.Errorf("unexpected params %v", q)
		}
		if q.Get("q") != "fone bluetooth" || q.Get("gl") != "br" || q.Get("hl") != "pt-br" || q.Get("num") != "2" {
			t.Errorf("unexpected params %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"search_metadata": {"status": "Success"},
			"shopping_results": [
				{"title": " Fone JBL ", "price": "R$ 199,90", "extracted_price": 199.9,
				 "product_link": "https://google.example/p/1", "link": "https://loja.example/1",
				 "source": "Loja A", "thumbnail": "https://img.example/1.jpg"},
				{"title": "", "link": "https://loja.example/skip"},
				{"title": "Fone Sony", "price": "sob consulta", "link": "https://loja.example/2", "source": "Loja B"},
				{"title": "Fone Extra", "link": "https://loja.example/3"}
			]
		}`))
	}))
	defer ts.Close()

	products, err := newTestClient(ts.URL).Search(context.Background(), "  fone; bluetooth!! ", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	first := products[0]
	if first.Name != "Fone JBL" || first.Link != "https://google.example/p/1" || first.Store != "Loja A" {
		t.Fatalf("unexpected first product %+v", first)
	}
	if first.PriceValue == nil || *first.PriceValue != 199.9 || first.ImageURL == nil {
		t.Fatalf("expected price and image, got %+v", first)
	}
	if products[1].PriceValue != nil || products[1].PriceDisplay != "sob consulta" || products[1].ImageURL != nil {
		t.Fatalf("unexpected second product %+v", products[1])
	}
}

func TestSerpAPIClient_Search_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"Quota", http.StatusTooManyRequests, `{}`, ErrQuotaExceeded},
		{"ServerError", http.StatusBadGateway, `oops`, ErrProviderUnavailable},
		{"BadJSON", http.StatusOK, `{not json`, ErrProviderUnavailable},
		{"APIError", http.StatusOK, `{"error": "Invalid API key"}`, ErrProviderUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newTestClient(ts.URL).Search(context.Background(), "presente", 5)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrProviderUnavailable) {
				t.Fatalf("expected every failure to wrap ErrProviderUnavailable, got %v", err)
			}
		})
	}
}

func TestSerpAPIClient_Search_NoResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "Google Shopping hasn't returned any results for this query."}`))
	}))
	defer ts.Close()

	products, err := newTestClient(ts.URL).Search(context.Background(), "xyzzy", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected no products, got %d", len(products))
	}
}

func TestSerpAPIClient_Search_NotConfigured(t *testing.T) {
	client := NewSerpAPIClient(config.ShoppingConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Search(context.Background(), "presente", 5)
	if !errors.Is(err, ErrNotConfigured) || !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestSerpAPIClient_Search_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := newTestClient(ts.URL).Search(ctx, "presente", 5)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}
}

func TestSanitizeQuery(t *testing.T) {
	tests := map[string]string{
		"  fone; bluetooth!! ":  "fone bluetooth",
		"presente\tpai  adulto": "presente pai adulto",
		"<script>":              "script",
		"!!!":                   "",
	}
	for in, want := range tests {
		if got := SanitizeQuery(in); got != want {
			t.Errorf("SanitizeQuery(%q) = %q, want %q", in, got, want)
		}
	}
	long := SanitizeQuery(strings.Repeat("a", 300))
	if len([]rune(long)) != maxQueryLength {
		t.Errorf("expected query capped at %d, got %d", maxQueryLength, len([]rune(long)))
	}
}
