package lexicon

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rajasatyajit/grievance-insights/internal/models"
)

type mockDB struct {
	QueryFn func(ctx context.Context, sql string, args ...any) (interface{}, error)
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...any) (interface{}, error) {
	if m.QueryFn != nil {
		return m.QueryFn(ctx, sql, args...)
	}
	return nil, nil
}

type entryRow struct {
	axis, label, phrase string
	weight, priority    int
}

type fakeRows struct {
	rows    []entryRow
	pos     int
	scanErr error
	err     error
	closed  bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.rows[r.pos-1]
	*dest[0].(*string) = row.axis
	*dest[1].(*string) = row.label
	*dest[2].(*string) = row.phrase
	*dest[3].(*int) = row.weight
	*dest[4].(*int) = row.priority
	return nil
}

func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     { r.closed = true }

func rowsDB(r *fakeRows) *mockDB {
	return &mockDB{QueryFn: func(ctx context.Context, sql string, args ...any) (interface{}, error) {
		return r, nil
	}}
}

func TestPostgresSource_Load(t *testing.T) {
	r := &fakeRows{rows: []entryRow{
		{"category", "Hostel", "room", 2, 1},
		{"category", "Hostel", "bed", 1, 1},
		{"category", "Mess", "food", 3, 2},
		{"sentiment", "Positive", "thanks", 2, 0},
		{"sentiment", "negative", "bad", 2, 0},
		{"urgency", "HIGH", "urgent", 3, 0},
		{"urgency", "low", "minor", 1, 0},
	}}

	set, err := NewPostgresSource(rowsDB(r)).Load(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !r.closed {
		t.Error("Expected rows to be closed")
	}

	cats := set.Categories()
	if len(cats) != 3 || cats[0] != "Hostel" || cats[1] != "Mess" || cats[2] != models.CategoryOther {
		t.Errorf("Unexpected categories: %v", cats)
	}
	if got := set.CategoryLexicons()[0].Lexicon.Score("my room and bed"); got != 3 {
		t.Errorf("Expected Hostel score 3, got %d", got)
	}
	if got := set.Urgency(models.UrgencyHigh).Score("urgent"); got != 3 {
		t.Errorf("Expected high urgency score 3, got %d", got)
	}
	if got := set.Urgency(models.UrgencyMedium).Len(); got != 0 {
		t.Errorf("Expected empty medium table, got %d entries", got)
	}
}

func TestPostgresSource_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		db      *mockDB
		wantErr string
	}{
		{
			name: "query error",
			db: &mockDB{QueryFn: func(ctx context.Context, sql string, args ...any) (interface{}, error) {
				return nil, errors.New("connection refused")
			}},
			wantErr: "database error during load lexicon",
		},
		{
			name: "invalid rows type",
			db: &mockDB{QueryFn: func(ctx context.Context, sql string, args ...any) (interface{}, error) {
				return 123, nil
			}},
			wantErr: "invalid rows type",
		},
		{
			name:    "scan error",
			db:      rowsDB(&fakeRows{rows: []entryRow{{"category", "A", "a", 1, 1}}, scanErr: errors.New("bad column")}),
			wantErr: "scan lexicon entry",
		},
		{
			name:    "rows error",
			db:      rowsDB(&fakeRows{err: errors.New("stream broken")}),
			wantErr: "stream broken",
		},
		{
			name:    "unknown axis",
			db:      rowsDB(&fakeRows{rows: []entryRow{{"category", "A", "a", 1, 1}, {"topic", "A", "a", 1, 1}}}),
			wantErr: "unknown axis",
		},
		{
			name:    "unknown urgency level",
			db:      rowsDB(&fakeRows{rows: []entryRow{{"category", "A", "a", 1, 1}, {"urgency", "severe", "a", 1, 1}}}),
			wantErr: "unknown urgency level",
		},
		{
			name:    "empty table",
			db:      rowsDB(&fakeRows{}),
			wantErr: "at least one category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPostgresSource(tt.db).Load(context.Background())
			if err == nil {
				t.Fatalf("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
			if !strings.HasPrefix(err.Error(), "lexicon error from postgres:lexicon_entries") {
				t.Errorf("Expected LexiconError, got %v", err)
			}
		})
	}
}
