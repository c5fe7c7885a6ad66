package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/giftmatch/internal/models"
)

// SignalResolver builds the matching signals for a recipient.
type SignalResolver interface {
	ResolveSignals(ctx context.Context, recipientID uuid.UUID) (models.RecipientSignals, error)
}

// CategoryReader returns the active taxonomy snapshot.
type CategoryReader interface {
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
}

// CatalogReader returns the internal catalog.
type CatalogReader interface {
	ListActive(ctx context.Context) ([]models.CatalogItem, error)
}

// ProductSearcher queries an external shopping provider. Implementations
// must honor ctx cancellation.
type ProductSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.ExternalProduct, error)
}

// SuggestionServiceInterface defines the contract for suggestion operations.
type SuggestionServiceInterface interface {
	Suggest(ctx context.Context, req SuggestionRequest) (*models.SuggestionPage, error)
}

// TaxonomyServiceInterface defines the contract for taxonomy reads used by handlers.
type TaxonomyServiceInterface interface {
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
	ListGiftTypes(ctx context.Context) ([]models.GiftType, error)
}

// ClickRecorder records outbound product clicks without blocking the caller.
type ClickRecorder interface {
	Record(link string)
}
