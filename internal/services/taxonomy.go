package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/giftmatch/internal/models"
)

var ErrCategoryNotFound = errors.New("category not found")

type TaxonomyService struct {
	db DBConn
}

func NewTaxonomyService(db DBConn) *TaxonomyService {
	return &TaxonomyService{db: db}
}

func (s *TaxonomyService) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, keywords, color, icon, is_active
		 FROM gift_categories
		 WHERE is_active = true
		 ORDER BY name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Keywords, &c.Color, &c.Icon, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.Keywords = NormalizeKeywords(c.Keywords)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (s *TaxonomyService) ListGiftTypes(ctx context.Context) ([]models.GiftType, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, is_active
		 FROM gift_types
		 WHERE is_active = true
		 ORDER BY name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing gift types: %w", err)
	}
	defer rows.Close()

	types := []models.GiftType{}
	for rows.Next() {
		var gt models.GiftType
		if err := rows.Scan(&gt.ID, &gt.Name, &gt.IsActive); err != nil {
			return nil, fmt.Errorf("scanning gift type: %w", err)
		}
		types = append(types, gt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing gift types: %w", err)
	}
	return types, nil
}

// SetCategoryKeywords replaces a category's keywords, normalized on write.
func (s *TaxonomyService) SetCategoryKeywords(ctx context.Context, id uuid.UUID, keywords []string) ([]string, error) {
	normalized := NormalizeKeywords(keywords)
	affected, err := s.db.Exec(ctx,
		`UPDATE gift_categories SET keywords = $2, updated_at = NOW() WHERE id = $1`,
		id, normalized,
	)
	if err != nil {
		return nil, fmt.Errorf("updating category keywords: %w", err)
	}
	if affected == 0 {
		return nil, ErrCategoryNotFound
	}
	return normalized, nil
}
