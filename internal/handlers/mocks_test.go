package handlers

import (
	"context"
	"sync"

	"github.com/HammerMeetNail/giftmatch/internal/models"
	"github.com/HammerMeetNail/giftmatch/internal/services"
)

type mockSuggestionService struct {
	SuggestFunc func(ctx context.Context, req services.SuggestionRequest) (*models.SuggestionPage, error)
}

func (m *mockSuggestionService) Suggest(ctx context.Context, req services.SuggestionRequest) (*models.SuggestionPage, error) {
	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, req)
	}
	return &models.SuggestionPage{Source: models.SourceInternal, Results: []models.SuggestionResult{}}, nil
}

type mockTaxonomyService struct {
	ListActiveCategoriesFunc func(ctx context.Context) ([]models.Category, error)
	ListGiftTypesFunc        func(ctx context.Context) ([]models.GiftType, error)
}

func (m *mockTaxonomyService) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	if m.ListActiveCategoriesFunc != nil {
		return m.ListActiveCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockTaxonomyService) ListGiftTypes(ctx context.Context) ([]models.GiftType, error) {
	if m.ListGiftTypesFunc != nil {
		return m.ListGiftTypesFunc(ctx)
	}
	return nil, nil
}

type mockClickRecorder struct {
	mu    sync.Mutex
	links []string
}

func (m *mockClickRecorder) Record(link string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, link)
}

func (m *mockClickRecorder) recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.links...)
}
