package services

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/giftmatch/internal/models"
)

type fakeDB struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (int64, error)
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if f.QueryFunc == nil {
		return &fakeRows{}, nil
	}
	return f.QueryFunc(ctx, sql, args...)
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if f.QueryRowFunc == nil {
		return fakeRow{scanFunc: func(dest ...any) error { return ErrNoRows }}
	}
	return f.QueryRowFunc(ctx, sql, args...)
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	if f.ExecFunc == nil {
		return 1, nil
	}
	return f.ExecFunc(ctx, sql, args...)
}

type fakeRow struct {
	scanFunc func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scanFunc(dest...)
}

// fakeRows yields rows of values assigned positionally into Scan targets. A
// nil value leaves the target at its zero value.
type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(r.rows[r.idx-1], dest)
}

func (r *fakeRows) Close() {}
func (r *fakeRows) Err() error { return r.err }

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(values), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan: column %d: cannot assign %s to %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

// rowOf returns a fakeRow that scans values positionally.
func rowOf(values ...any) fakeRow {
	return fakeRow{scanFunc: func(dest ...any) error { return assign(values, dest) }}
}

type fakeSignals struct {
	signals models.RecipientSignals
	err     error
}

func (f fakeSignals) ResolveSignals(ctx context.Context, _ uuid.UUID) (models.RecipientSignals, error) {
	return f.signals, f.err
}

type fakeCategories struct {
	categories []models.Category
	err        error
}

func (f fakeCategories) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

type fakeCatalog struct {
	items []models.CatalogItem
	err   error
}

func (f fakeCatalog) ListActive(ctx context.Context) ([]models.CatalogItem, error) {
	return f.items, f.err
}

type fakeSearcher struct {
	SearchFunc func(ctx context.Context, query string, limit int) ([]models.ExternalProduct, error)
	calls      int
	lastQuery  string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]models.ExternalProduct, error) {
	f.calls++
	f.lastQuery = query
	if f.SearchFunc == nil {
		return nil, nil
	}
	return f.SearchFunc(ctx, query, limit)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
