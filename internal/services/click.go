package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/giftmatch/internal/logging"
)

const (
	clickCounterKey = "clicks:links"
	maxLinkLength   = 2048
	clickTimeout    = 5 * time.Second
)

var ErrInvalidLink = errors.New("invalid link")

// ClickService records outbound product clicks. Record never blocks the
// caller and never reports failures to it.
type ClickService struct {
	db    DBConn
	redis *redis.Client
	wg    sync.WaitGroup
}

func NewClickService(db DBConn, redisClient *redis.Client) *ClickService {
	return &ClickService{db: db, redis: redisClient}
}

// ValidateLink accepts absolute http(s) URLs up to 2048 bytes.
func ValidateLink(link string) error {
	if link == "" || len(link) > maxLinkLength {
		return ErrInvalidLink
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidLink
	}
	return nil
}

func (s *ClickService) Record(link string) {
	if err := ValidateLink(link); err != nil {
		logging.Debug("Ignoring click with invalid link", logging.Fields{"link_length": len(link)})
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), clickTimeout)
		defer cancel()
		if err := s.write(ctx, link); err != nil {
			logging.Warn("Failed to record click", logging.Fields{"error": err.Error()})
		}
	}()
}

// Wait blocks until in-flight writes finish; used on shutdown and in tests.
func (s *ClickService) Wait() {
	s.wg.Wait()
}

func (s *ClickService) write(ctx context.Context, link string) error {
	var errs []error
	if s.redis != nil {
		if err := s.redis.HIncrBy(ctx, clickCounterKey, link, 1).Err(); err != nil {
			errs = append(errs, fmt.Errorf("incrementing click counter: %w", err))
		}
	}
	if s.db != nil {
		if _, err := s.db.Exec(ctx,
			`INSERT INTO product_clicks (link, clicked_at) VALUES ($1, NOW())`,
			link,
		); err != nil {
			errs = append(errs, fmt.Errorf("inserting click: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Count returns the click counter for link.
func (s *ClickService) Count(ctx context.Context, link string) (int64, error) {
	if s.redis == nil {
		return 0, nil
	}
	v, err := s.redis.HGet(ctx, clickCounterKey, link).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading click counter: %w", err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing click counter: %w", err)
	}
	return n, nil
}
