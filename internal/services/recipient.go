package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/giftmatch/internal/models"
)

var ErrRecipientNotFound = errors.New("recipient not found")

type RecipientService struct {
	db DBConn
}

func NewRecipientService(db DBConn) *RecipientService {
	return &RecipientService{db: db}
}

func (s *RecipientService) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipient, error) {
	r := &models.Recipient{}
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, name, age, gender, zodiac_sign, relationship, interests
		 FROM recipients WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.Name, &r.Age, &r.Gender, &r.ZodiacSign, &r.Relationship, &r.Interests)
	if errors.Is(err, ErrNoRows) {
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting recipient: %w", err)
	}
	return r, nil
}

// GetProfile returns nil without error when the recipient has no profile.
func (s *RecipientService) GetProfile(ctx context.Context, recipientID uuid.UUID) (*models.RecipientProfile, error) {
	p := &models.RecipientProfile{}
	err := s.db.QueryRow(ctx,
		`SELECT recipient_id, gift_preference, budget_range, occasion, lifestyle, gifts_to_avoid
		 FROM recipient_profiles WHERE recipient_id = $1`,
		recipientID,
	).Scan(&p.RecipientID, &p.GiftPreference, &p.BudgetRange, &p.Occasion, &p.Lifestyle, &p.GiftsToAvoid)
	if errors.Is(err, ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting recipient profile: %w", err)
	}
	return p, nil
}

// ResolveSignals merges the recipient's attributes and optional profile into
// a signal set. Blank values are treated as unknown.
func (s *RecipientService) ResolveSignals(ctx context.Context, recipientID uuid.UUID) (models.RecipientSignals, error) {
	recipient, err := s.GetByID(ctx, recipientID)
	if err != nil {
		return models.RecipientSignals{}, err
	}
	profile, err := s.GetProfile(ctx, recipientID)
	if err != nil {
		return models.RecipientSignals{}, err
	}
	return BuildSignals(recipient, profile), nil
}

// BuildSignals is the pure part of ResolveSignals.
func BuildSignals(recipient *models.Recipient, profile *models.RecipientProfile) models.RecipientSignals {
	var signals models.RecipientSignals
	if recipient == nil {
		return signals
	}

	seen := make(map[string]struct{}, len(recipient.Interests))
	for _, interest := range recipient.Interests {
		interest = strings.TrimSpace(interest)
		key := NormalizePhrase(interest)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		signals.Interests = append(signals.Interests, interest)
	}

	if recipient.Age != nil {
		if r, ok := models.AgeRangeFor(*recipient.Age); ok {
			signals.AgeRange = &r
		}
	}
	signals.Gender = nonBlank(recipient.Gender)
	signals.ZodiacSign = nonBlank(recipient.ZodiacSign)
	signals.Relationship = nonBlank(recipient.Relationship)

	if profile != nil {
		signals.HasProfile = true
		signals.GiftPreference = nonBlank(profile.GiftPreference)
		signals.BudgetRange = nonBlank(profile.BudgetRange)
		signals.Occasion = nonBlank(profile.Occasion)
		signals.Lifestyle = nonBlank(profile.Lifestyle)
		signals.GiftsToAvoid = nonBlank(profile.GiftsToAvoid)
	}
	return signals
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
