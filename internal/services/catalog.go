package services

import (
	"context"
	"fmt"
	"time"

	"github.com/HammerMeetNail/giftmatch/internal/models"
)

type CatalogService struct {
	db DBConn
}

func NewCatalogService(db DBConn) *CatalogService {
	return &CatalogService{db: db}
}

// ListActive returns every catalog item with its category ids.
func (s *CatalogService) ListActive(ctx context.Context) ([]models.CatalogItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT s.id, s.name, s.description, s.link, s.image_url, s.price_min, s.price_max,
		        COALESCE(array_agg(sc.category_id ORDER BY sc.category_id)
		                 FILTER (WHERE sc.category_id IS NOT NULL), '{}') AS category_ids,
		        s.tags, s.priority, s.coupon_code, s.coupon_expires_on, s.created_at
		 FROM gift_suggestions s
		 LEFT JOIN gift_suggestion_categories sc ON sc.suggestion_id = s.id
		 GROUP BY s.id
		 ORDER BY s.priority DESC NULLS LAST, s.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	defer rows.Close()

	items := []models.CatalogItem{}
	for rows.Next() {
		var (
			item       models.CatalogItem
			couponCode *string
			couponDate *time.Time
		)
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Link, &item.ImageURL,
			&item.PriceMin, &item.PriceMax, &item.CategoryIDs, &item.Tags, &item.Priority,
			&couponCode, &couponDate, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}
		if couponCode != nil && *couponCode != "" && couponDate != nil {
			item.Coupon = &models.Coupon{Code: *couponCode, ExpiresOn: *couponDate}
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	return items, nil
}
