package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/giftmatch/internal/models"
)

// Weights are the scoring constants. They are tunable starting points.
type Weights struct {
	Keyword      float64
	CategoryName float64
	BudgetMatch  float64
	BudgetMiss   float64
	Avoid        float64
	Priority     float64
}

var DefaultWeights = Weights{
	Keyword:      1.0,
	CategoryName: 2.0,
	BudgetMatch:  1.5,
	BudgetMiss:   -1.0,
	Avoid:        -5.0,
	Priority:     0.1,
}

// BudgetBand is an inclusive price interval; Max is +Inf for open bands.
type BudgetBand struct {
	Min float64
	Max float64
}

func (b BudgetBand) Overlaps(lo, hi float64) bool {
	return lo <= b.Max && hi >= b.Min
}

var amountPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

var upperBoundWords = map[string]struct{}{
	"ate": {}, "menos": {}, "abaixo": {}, "max": {}, "maximo": {}, "under": {},
}

var lowerBoundWords = map[string]struct{}{
	"acima": {}, "mais": {}, "partir": {}, "min": {}, "minimo": {}, "over": {},
}

// ParseBudgetRange maps free-form budget labels ("ate_50", "R$100–300",
// "acima de 500", "500+") to a numeric band.
func ParseBudgetRange(label string) (BudgetBand, bool) {
	norm := Normalize(label)
	if norm == "" {
		return BudgetBand{}, false
	}

	var amounts []float64
	for _, m := range amountPattern.FindAllString(norm, -1) {
		if v, ok := parseAmount(m); ok {
			amounts = append(amounts, v)
		}
	}

	switch len(amounts) {
	case 0:
		if strings.Contains(norm, "sem limite") || strings.Contains(norm, "ilimitado") {
			return BudgetBand{Min: 0, Max: math.Inf(1)}, true
		}
		return BudgetBand{}, false
	case 1:
		words := make(map[string]struct{})
		for _, tok := range Tokenize(norm) {
			words[tok] = struct{}{}
		}
		if hasAny(words, upperBoundWords) {
			return BudgetBand{Min: 0, Max: amounts[0]}, true
		}
		if hasAny(words, lowerBoundWords) || strings.HasSuffix(strings.TrimSpace(norm), "+") {
			return BudgetBand{Min: amounts[0], Max: math.Inf(1)}, true
		}
		// A bare amount reads as a ceiling.
		return BudgetBand{Min: 0, Max: amounts[0]}, true
	default:
		lo, hi := amounts[0], amounts[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return BudgetBand{Min: lo, Max: hi}, true
	}
}

func hasAny(words, set map[string]struct{}) bool {
	for w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

// parseAmount reads Brazilian ("1.249,90") and plain ("1249.90") amounts.
func parseAmount(s string) (float64, bool) {
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case strings.Contains(s, "."):
		if i := strings.LastIndex(s, "."); len(s)-i-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ScoredItem is a catalog item with its relevance explanation.
type ScoredItem struct {
	Item            models.CatalogItem
	Value           float64
	Relevance       float64 // Value without the priority tie-breaker
	MatchedKeywords []string
	Category        *models.Category
}

// signalTerms is the precomputed, normalized view of a signal set.
type signalTerms struct {
	tokens  map[string]struct{}
	phrases map[string]struct{}
	avoid   map[string]struct{}
	budget  *BudgetBand
}

func newSignalTerms(s models.RecipientSignals) signalTerms {
	t := signalTerms{
		tokens:  make(map[string]struct{}),
		phrases: make(map[string]struct{}),
		avoid:   make(map[string]struct{}),
	}

	sources := append([]string{}, s.Interests...)
	for _, p := range []*string{s.GiftPreference, s.Occasion, s.Lifestyle} {
		if p != nil {
			sources = append(sources, *p)
		}
	}
	for _, src := range sources {
		if phrase := NormalizePhrase(src); phrase != "" {
			t.phrases[phrase] = struct{}{}
		}
		for _, tok := range Tokenize(src) {
			t.tokens[tok] = struct{}{}
		}
	}

	if s.GiftsToAvoid != nil {
		for _, tok := range contentTokens(*s.GiftsToAvoid) {
			t.avoid[tok] = struct{}{}
		}
	}

	if s.BudgetRange != nil {
		if band, ok := ParseBudgetRange(*s.BudgetRange); ok {
			t.budget = &band
		}
	}
	return t
}

func (t signalTerms) matches(keyword string) bool {
	k := NormalizePhrase(keyword)
	if k == "" {
		return false
	}
	if _, ok := t.tokens[k]; ok {
		return true
	}
	_, ok := t.phrases[k]
	return ok
}

// Score evaluates one catalog item against a signal set. categories holds the
// taxonomy snapshot by id; inactive or unknown categories contribute nothing.
func Score(signals models.RecipientSignals, item models.CatalogItem, categories map[uuid.UUID]models.Category) ScoredItem {
	return scoreWith(newSignalTerms(signals), item, categories, DefaultWeights)
}

func scoreWith(terms signalTerms, item models.CatalogItem, categories map[uuid.UUID]models.Category, w Weights) ScoredItem {
	out := ScoredItem{Item: item}

	attached := make([]models.Category, 0, len(item.CategoryIDs))
	for _, id := range item.CategoryIDs {
		if c, ok := categories[id]; ok && c.IsActive {
			attached = append(attached, c)
		}
	}
	sort.Slice(attached, func(i, j int) bool {
		if attached[i].Name != attached[j].Name {
			return attached[i].Name < attached[j].Name
		}
		return attached[i].ID.String() < attached[j].ID.String()
	})

	seen := make(map[string]struct{})
	bestContribution := 0.0
	for i := range attached {
		c := attached[i]
		contribution := 0.0
		for _, kw := range c.Keywords {
			if !terms.matches(kw) {
				continue
			}
			key := NormalizePhrase(kw)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out.MatchedKeywords = append(out.MatchedKeywords, kw)
			contribution += w.Keyword
		}
		if _, ok := terms.phrases[NormalizePhrase(c.Name)]; ok {
			contribution += w.CategoryName
		}
		out.Relevance += contribution
		if out.Category == nil || contribution > bestContribution {
			out.Category = &attached[i]
			bestContribution = contribution
		}
	}

	if terms.budget != nil {
		if terms.budget.Overlaps(item.PriceMin, item.PriceMax) {
			out.Relevance += w.BudgetMatch
		} else {
			out.Relevance += w.BudgetMiss
		}
	}

	if len(terms.avoid) > 0 && sharesToken(terms.avoid, item) {
		out.Relevance += w.Avoid
	}

	out.Value = out.Relevance
	if item.Priority != nil {
		out.Value += w.Priority * float64(*item.Priority)
	}
	return out
}

func sharesToken(avoid map[string]struct{}, item models.CatalogItem) bool {
	texts := append([]string{item.Name}, item.Tags...)
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			if _, ok := avoid[tok]; ok {
				return true
			}
		}
	}
	return false
}

// Rank scores the catalog, drops items with no positive relevance and orders
// the rest by score desc, priority desc, id asc.
func Rank(signals models.RecipientSignals, items []models.CatalogItem, categories []models.Category) []ScoredItem {
	byID := make(map[uuid.UUID]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	terms := newSignalTerms(signals)

	ranked := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		scored := scoreWith(terms, item, byID, DefaultWeights)
		if scored.Relevance <= 0 {
			continue
		}
		ranked = append(ranked, scored)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if pa, pb := priorityOf(a.Item), priorityOf(b.Item); pa != pb {
			return pa > pb
		}
		return a.Item.ID.String() < b.Item.ID.String()
	})
	return ranked
}

func priorityOf(item models.CatalogItem) int {
	if item.Priority == nil {
		return 0
	}
	return *item.Priority
}
