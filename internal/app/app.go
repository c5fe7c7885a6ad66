// Package app wires configuration and storage into the service graph shared
// by the HTTP server and the giftctl tool.
package app

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/giftmatch/internal/config"
	"github.com/HammerMeetNail/giftmatch/internal/services"
	"github.com/HammerMeetNail/giftmatch/internal/services/shopping"
)

type Services struct {
	Recipients  *services.RecipientService
	Taxonomy    *services.TaxonomyService
	Catalog     *services.CatalogService
	Suggestions *services.SuggestionService
	Clicks      *services.ClickService

	// Shopping and Warmer are nil when no SerpApi key is configured.
	Shopping *shopping.CachedSearcher
	Warmer   *shopping.Warmer
}

func NewServices(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (*Services, error) {
	loc, err := cfg.Suggestions.Location()
	if err != nil {
		return nil, fmt.Errorf("resolving suggestions timezone: %w", err)
	}

	db := services.NewPoolAdapter(pool)
	svc := &Services{
		Recipients: services.NewRecipientService(db),
		Taxonomy:   services.NewTaxonomyService(db),
		Catalog:    services.NewCatalogService(db),
		Clicks:     services.NewClickService(db, redisClient),
	}

	// A typed nil would defeat the provider check inside the engine.
	var searcher services.ProductSearcher
	if cfg.Shopping.APIKey != "" {
		svc.Shopping = shopping.NewCachedSearcher(shopping.NewSerpAPIClient(cfg.Shopping), redisClient, cfg.Shopping.CacheTTL)
		svc.Warmer = shopping.NewWarmer(svc.Shopping, shopping.WarmerOptions{
			Spec:    cfg.Shopping.WarmSpec,
			Top:     cfg.Shopping.WarmTop,
			Limit:   cfg.Suggestions.ExternalLimit,
			Tries:   cfg.Shopping.WarmTries,
			Backoff: cfg.Shopping.WarmBackoff,
		})
		searcher = svc.Shopping
	}

	svc.Suggestions = services.NewSuggestionService(svc.Recipients, svc.Taxonomy, svc.Catalog, searcher, services.SuggestionOptions{
		PageSize:        cfg.Suggestions.PageSize,
		MaxLimit:        cfg.Suggestions.MaxLimit,
		ExternalLimit:   cfg.Suggestions.ExternalLimit,
		QueryKeywords:   cfg.Suggestions.QueryKeywords,
		ProviderTimeout: cfg.Shopping.Timeout,
		Location:        loc,
	})
	return svc, nil
}
