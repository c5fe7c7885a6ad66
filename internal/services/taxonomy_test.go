package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestTaxonomyService_ListActiveCategories(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			if !strings.Contains(sql, "is_active = true") {
				t.Fatalf("expected active filter, got %q", sql)
			}
			return &fakeRows{rows: [][]any{
				{uuid.New(), "Eletrônicos", []string{"Tecnologia", "tecnologia", " "}, strPtr("#333"), nil, true},
				{uuid.New(), "Livros", []string{"leitura"}, nil, strPtr("book"), true},
			}}, nil
		},
	}

	categories, err := NewTaxonomyService(db).ListActiveCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if !reflect.DeepEqual(categories[0].Keywords, []string{"tecnologia"}) {
		t.Fatalf("expected sanitized keywords, got %v", categories[0].Keywords)
	}
	if categories[0].Icon != nil || categories[1].Color != nil {
		t.Fatal("expected null columns to stay nil")
	}
}

func TestTaxonomyService_ListActiveCategories_Error(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return nil, context.Canceled
		},
	}
	if _, err := NewTaxonomyService(db).ListActiveCategories(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestTaxonomyService_ListGiftTypes(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return &fakeRows{rows: [][]any{
				{uuid.New(), "Experiência", true},
			}}, nil
		},
	}
	types, err := NewTaxonomyService(db).ListGiftTypes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(types) != 1 || types[0].Name != "Experiência" {
		t.Fatalf("unexpected gift types %+v", types)
	}
}

func TestTaxonomyService_ListGiftTypes_RowsError(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return &fakeRows{err: errors.New("connection reset")}, nil
		},
	}
	if _, err := NewTaxonomyService(db).ListGiftTypes(context.Background()); err == nil {
		t.Fatal("expected rows error to surface")
	}
}

func TestTaxonomyService_SetCategoryKeywords(t *testing.T) {
	var written []string
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (int64, error) {
			written = args[1].([]string)
			return 1, nil
		},
	}
	got, err := NewTaxonomyService(db).SetCategoryKeywords(context.Background(), uuid.New(), []string{" Vinho ", "vinho", "", "Queijos  Finos"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"vinho", "queijos finos"}
	if !reflect.DeepEqual(got, want) || !reflect.DeepEqual(written, want) {
		t.Fatalf("expected %v, got %v (written %v)", want, got, written)
	}
}

func TestTaxonomyService_SetCategoryKeywords_NotFound(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (int64, error) {
			return 0, nil
		},
	}
	_, err := NewTaxonomyService(db).SetCategoryKeywords(context.Background(), uuid.New(), []string{"x"})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
