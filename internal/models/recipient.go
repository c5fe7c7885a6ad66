package models

import "github.com/google/uuid"

// Recipient is the person a user is buying a gift for. Only the attributes the
// matching engine reads are mapped.
type Recipient struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Age          *int      `json:"age,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	ZodiacSign   *string   `json:"zodiac_sign,omitempty"`
	Relationship *string   `json:"relationship,omitempty"`
	Interests    []string  `json:"interests"`
}

// RecipientProfile is the optional detailed questionnaire for a recipient.
type RecipientProfile struct {
	RecipientID    uuid.UUID `json:"recipient_id"`
	GiftPreference *string   `json:"gift_preference,omitempty"`
	BudgetRange    *string   `json:"budget_range,omitempty"`
	Occasion       *string   `json:"occasion,omitempty"`
	Lifestyle      *string   `json:"lifestyle,omitempty"`
	GiftsToAvoid   *string   `json:"gifts_to_avoid,omitempty"`
}

// Age ranges derived from a recipient's age.
const (
	AgeRangeChild  = "crianca"
	AgeRangeTeen   = "adolescente"
	AgeRangeYoung  = "jovem"
	AgeRangeAdult  = "adulto"
	AgeRangeSenior = "idoso"
)

// AgeRangeFor buckets an age. Negative ages have no range.
func AgeRangeFor(age int) (string, bool) {
	switch {
	case age < 0:
		return "", false
	case age < 13:
		return AgeRangeChild, true
	case age < 18:
		return AgeRangeTeen, true
	case age < 30:
		return AgeRangeYoung, true
	case age < 60:
		return AgeRangeAdult, true
	default:
		return AgeRangeSenior, true
	}
}

// RecipientSignals is the normalized attribute set used for ranking. It is
// rebuilt on every request and never cached.
type RecipientSignals struct {
	Interests      []string
	AgeRange       *string
	Gender         *string
	ZodiacSign     *string
	Relationship   *string
	GiftPreference *string
	BudgetRange    *string
	Occasion       *string
	Lifestyle      *string
	GiftsToAvoid   *string

	// HasProfile is false when the recipient has no detailed profile row.
	HasProfile bool
}

// IsEmpty reports whether no attribute at all is known.
func (s RecipientSignals) IsEmpty() bool {
	if len(s.Interests) > 0 {
		return false
	}
	for _, p := range []*string{
		s.AgeRange, s.Gender, s.ZodiacSign, s.Relationship,
		s.GiftPreference, s.BudgetRange, s.Occasion, s.Lifestyle, s.GiftsToAvoid,
	} {
		if p != nil && *p != "" {
			return false
		}
	}
	return true
}
