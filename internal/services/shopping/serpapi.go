package shopping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/HammerMeetNail/giftmatch/internal/config"
	"github.com/HammerMeetNail/giftmatch/internal/logging"
	"github.com/HammerMeetNail/giftmatch/internal/models"
)

const (
	serpEngine     = "google_shopping"
	maxQueryLength = 120
	maxResults     = 100
)

var serpAPIPath = "/search.json"

// SerpAPIClient searches Google Shopping through SerpApi. Every failure wraps
// ErrProviderUnavailable.
type SerpAPIClient struct {
	apiKey   string
	baseURL  string
	location string
	country  string
	language string
	client   *http.Client
}

func NewSerpAPIClient(cfg config.ShoppingConfig) *SerpAPIClient {
	return &SerpAPIClient{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		location: cfg.Location,
		country:  cfg.Country,
		language: cfg.Language,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

type serpResponse struct {
	SearchMetadata struct {
		Status string `json:"status"`
	} `json:"search_metadata"`
	Error           string           `json:"error"`
	ShoppingResults []serpShopResult `json:"shopping_results"`
}

type serpShopResult struct {
	Title          string   `json:"title"`
	Snippet        string   `json:"snippet"`
	Thumbnail      string   `json:"thumbnail"`
	Price          string   `json:"price"`
	ExtractedPrice *float64 `json:"extracted_price"`
	Link           string   `json:"link"`
	ProductLink    string   `json:"product_link"`
	Source         string   `json:"source"`
}

// SanitizeQuery keeps letters, digits and single spaces and caps the length.
func SanitizeQuery(q string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(q) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case !space && b.Len() > 0:
			b.WriteByte(' ')
			space = true
		}
	}
	out := strings.TrimSpace(b.String())
	if runes := []rune(out); len(runes) > maxQueryLength {
		out = strings.TrimSpace(string(runes[:maxQueryLength]))
	}
	return out
}

func (c *SerpAPIClient) Search(ctx context.Context, query string, limit int) ([]models.ExternalProduct, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, ErrNotConfigured)
	}
	query = SanitizeQuery(query)
	if query == "" {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, ErrEmptyQuery)
	}
	if limit < 1 || limit > maxResults {
		limit = maxResults
	}

	params := url.Values{}
	params.Set("engine", serpEngine)
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(limit))
	if c.location != "" {
		params.Set("location", c.location)
	}
	if c.country != "" {
		params.Set("gl", c.country)
	}
	if c.language != "" {
		params.Set("hl", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+serpAPIPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, ErrQuotaExceeded)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		logging.FromContext(ctx).Error("SerpApi non-200 response", logging.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrProviderUnavailable, err)
	}
	if parsed.Error != "" && len(parsed.ShoppingResults) == 0 {
		// SerpApi reports "no results" as an error string with status 200.
		if strings.Contains(strings.ToLower(parsed.Error), "hasn't returned any results") {
			return []models.ExternalProduct{}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, parsed.Error)
	}

	products := make([]models.ExternalProduct, 0, len(parsed.ShoppingResults))
	for _, r := range parsed.ShoppingResults {
		link := r.ProductLink
		if link == "" {
			link = r.Link
		}
		if strings.TrimSpace(r.Title) == "" || link == "" {
			continue
		}
		p := models.ExternalProduct{
			Name:         strings.TrimSpace(r.Title),
			Description:  strings.TrimSpace(r.Snippet),
			PriceDisplay: r.Price,
			PriceValue:   r.ExtractedPrice,
			Link:         link,
			Store:        r.Source,
		}
		if r.Thumbnail != "" {
			thumb := r.Thumbnail
			p.ImageURL = &thumb
		}
		products = append(products, p)
		if len(products) == limit {
			break
		}
	}

	logging.FromContext(ctx).Debug("SerpApi search completed", logging.Fields{
		"query":   query,
		"results": len(products),
	})
	return products, nil
}
