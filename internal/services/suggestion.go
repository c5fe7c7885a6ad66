package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/HammerMeetNail/giftmatch/internal/logging"
	"github.com/HammerMeetNail/giftmatch/internal/models"
)

var ErrInvalidPage = errors.New("page must be at least 1")

// Warning texts returned in the page envelope.
const (
	WarningNoProfile       = "Destinatário sem perfil detalhado; sugestões baseadas apenas nos dados básicos."
	WarningProviderFailure = "Busca externa indisponível no momento; exibindo apenas sugestões internas."
	WarningNoResults       = "Nenhuma sugestão encontrada para este destinatário."
)

// externalNamespace scopes the deterministic ids given to provider products.
var externalNamespace = uuid.MustParse("6f1c9a52-3d0e-4b8f-9c41-2a7e5d8b0f13")

type SuggestionRequest struct {
	RecipientID uuid.UUID
	Page        int
	Limit       int // 0 means the default page size
}

type SuggestionOptions struct {
	PageSize        int
	MaxLimit        int
	ExternalLimit   int
	QueryKeywords   int
	ProviderTimeout time.Duration
	Location        *time.Location
}

func (o SuggestionOptions) withDefaults() SuggestionOptions {
	if o.PageSize < 1 {
		o.PageSize = 5
	}
	if o.MaxLimit < o.PageSize {
		o.MaxLimit = o.PageSize
	}
	if o.ExternalLimit < 1 {
		o.ExternalLimit = 20
	}
	if o.QueryKeywords < 1 {
		o.QueryKeywords = 3
	}
	if o.ProviderTimeout <= 0 {
		o.ProviderTimeout = 4 * time.Second
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// SuggestionService ranks the internal catalog for a recipient, tops it up
// from the external provider when needed and returns one page.
type SuggestionService struct {
	signals    SignalResolver
	categories CategoryReader
	catalog    CatalogReader
	searcher   ProductSearcher
	coupons    *CouponAnnotator
	opts       SuggestionOptions
}

// NewSuggestionService wires the engine. searcher may be nil, in which case
// only internal results are served.
func NewSuggestionService(signals SignalResolver, categories CategoryReader, catalog CatalogReader, searcher ProductSearcher, opts SuggestionOptions) *SuggestionService {
	opts = opts.withDefaults()
	return &SuggestionService{
		signals:    signals,
		categories: categories,
		catalog:    catalog,
		searcher:   searcher,
		coupons:    NewCouponAnnotator(opts.Location),
		opts:       opts,
	}
}

// ClampLimit applies the default page size and the [1, MaxLimit] bound.
func (s *SuggestionService) ClampLimit(limit int) int {
	if limit == 0 {
		return s.opts.PageSize
	}
	if limit < 1 {
		return 1
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

func (s *SuggestionService) Suggest(ctx context.Context, req SuggestionRequest) (*models.SuggestionPage, error) {
	if req.Page < 1 {
		return nil, ErrInvalidPage
	}
	limit := s.ClampLimit(req.Limit)
	log := logging.FromContext(ctx).WithField("recipient_id", req.RecipientID.String())

	var (
		signals    models.RecipientSignals
		categories []models.Category
		items      []models.CatalogItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		signals, err = s.signals.ResolveSignals(gctx, req.RecipientID)
		return err
	})
	g.Go(func() error {
		var err error
		if categories, err = s.categories.ListActiveCategories(gctx); err != nil {
			log.Error("Failed to load categories", logging.Fields{"error": err.Error()})
			categories = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if items, err = s.catalog.ListActive(gctx); err != nil {
			log.Error("Failed to load catalog", logging.Fields{"error": err.Error()})
			items = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrRecipientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolving recipient signals: %w", err)
	}

	ranked := Rank(signals, items, categories)
	internal := make([]models.SuggestionResult, 0, len(ranked))
	for _, scored := range ranked {
		internal = append(internal, s.internalResult(scored))
	}

	var warnings []string
	if !signals.HasProfile {
		warnings = append(warnings, WarningNoProfile)
	}

	// Independent of req.Page so every page slices the same merged list.
	source := models.SourceInternal
	all := internal
	if len(internal) < limit && s.searcher != nil && !signals.IsEmpty() {
		query := DeriveQuery(signals, ranked, s.opts.QueryKeywords)
		products, err := s.searchExternal(ctx, query)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			log.Warn("External search failed", logging.Fields{"query": query, "error": err.Error()})
			warnings = append(warnings, WarningProviderFailure)
		default:
			external := externalResults(products)
			all = mergeResults(internal, external)
			if len(all) > len(internal) {
				if len(internal) == 0 {
					source = models.SourceExternal
				} else {
					source = models.SourceMixed
				}
			}
		}
	}

	if len(all) == 0 {
		warnings = append(warnings, WarningNoResults)
	}

	page := paginate(all, req.Page, limit)
	page.Source = source
	page.Warning = strings.Join(warnings, " ")
	return page, nil
}

// searchExternal bounds the provider call by the configured timeout. The
// call is abandoned, not awaited, once ctx is done.
func (s *SuggestionService) searchExternal(ctx context.Context, query string) ([]models.ExternalProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
	defer cancel()

	type outcome struct {
		products []models.ExternalProduct
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		products, err := s.searcher.Search(ctx, query, s.opts.ExternalLimit)
		done <- outcome{products, err}
	}()

	select {
	case out := <-done:
		return out.products, out.err
	case <-ctx.Done():
		return nil, fmt.Errorf("external search: %w", ctx.Err())
	}
}

func (s *SuggestionService) internalResult(scored ScoredItem) models.SuggestionResult {
	item := scored.Item
	price := item.PriceMin
	result := models.SuggestionResult{
		ID:          item.ID.String(),
		Name:        item.Name,
		Description: item.Description,
		Link:        item.Link,
		Image:       item.ImageURL,
		Price:       models.Price{Amount: &price},
		Priority:    item.Priority,
		Tags:        append([]string{}, item.Tags...),
		Source:      models.SourceInternal,
		Score:       scored.Value,
	}
	if scored.Category != nil {
		name := scored.Category.Name
		result.Category = &name
	}
	s.coupons.Annotate(&result, item.Coupon)
	return result
}

func externalResults(products []models.ExternalProduct) []models.SuggestionResult {
	out := make([]models.SuggestionResult, 0, len(products))
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" || p.Link == "" {
			continue
		}
		result := models.SuggestionResult{
			ID:          uuid.NewSHA1(externalNamespace, []byte(p.Link)).String(),
			Name:        p.Name,
			Description: p.Description,
			Link:        p.Link,
			Image:       p.ImageURL,
			Price:       models.Price{Amount: p.PriceValue, Display: p.PriceDisplay},
			Tags:        []string{},
			Source:      models.SourceExternal,
		}
		if p.Store != "" {
			store := p.Store
			result.Store = &store
		}
		out = append(out, result)
	}
	return out
}

// DedupKey identifies a product across sources by normalized name and price
// rounded to whole units.
func DedupKey(name string, amount *float64) string {
	price := "?"
	if amount != nil {
		price = fmt.Sprintf("%.0f", math.Round(*amount))
	}
	return NormalizePhrase(name) + "|" + price
}

// mergeResults keeps every internal result, in rank order, and appends
// external results in provider order. Only external results are dropped: when
// they collide with an internal item or with an earlier external one.
func mergeResults(internal, external []models.SuggestionResult) []models.SuggestionResult {
	seen := make(map[string]struct{}, len(internal)+len(external))
	merged := make([]models.SuggestionResult, 0, len(internal)+len(external))
	for _, r := range internal {
		seen[DedupKey(r.Name, r.Price.Amount)] = struct{}{}
		merged = append(merged, r)
	}
	for _, r := range external {
		key := DedupKey(r.Name, r.Price.Amount)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, r)
	}
	return merged
}

func paginate(all []models.SuggestionResult, page, limit int) *models.SuggestionPage {
	total := len(all)
	totalPages := (total + limit - 1) / limit
	results := []models.SuggestionResult{}
	if start := (page - 1) * limit; start < total {
		end := start + limit
		if end > total {
			end = total
		}
		results = append(results, all[start:end]...)
	}
	return &models.SuggestionPage{
		Results: results,
		Pagination: models.Pagination{
			Page:         page,
			TotalPages:   totalPages,
			TotalResults: total,
		},
	}
}

// DeriveQuery builds the provider search text: the first n distinct matched
// keywords of the ranked items, else the interests, else a generic query from
// the base attributes.
func DeriveQuery(signals models.RecipientSignals, ranked []ScoredItem, n int) string {
	var keywords []string
	seen := make(map[string]struct{})
	for _, scored := range ranked {
		for _, kw := range scored.MatchedKeywords {
			key := NormalizePhrase(kw)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			keywords = append(keywords, kw)
			if len(keywords) == n {
				return strings.Join(keywords, " ")
			}
		}
	}
	if len(keywords) > 0 {
		return strings.Join(keywords, " ")
	}

	if len(signals.Interests) > 0 {
		return strings.Join(signals.Interests, " ")
	}

	parts := []string{"presente"}
	for _, p := range []*string{signals.Relationship, signals.Gender, signals.AgeRange} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, " ")
}
