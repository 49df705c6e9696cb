package model

import (
	"math"
	"testing"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		wantPage   int
		wantOffset int
		wantPages  int
	}{
		{"first page", 1, 2, 5, 1, 0, 3},
		{"last partial page", 3, 2, 5, 3, 4, 3},
		{"beyond last page", 4, 2, 5, 4, 6, 3},
		{"zero page defaults to 1", 0, 2, 5, 1, 0, 3},
		{"negative page defaults to 1", -3, 2, 5, 1, 0, 3},
		{"zero limit clamps to 1", 2, 0, 5, 2, 1, 5},
		{"exact multiple", 1, 5, 10, 1, 0, 2},
		{"empty catalog", 1, 2, 0, 1, 0, 0},
		{"huge page saturates offset", math.MaxInt/2 + 2, 2, 5, math.MaxInt/2 + 2, math.MaxInt - 2, 3},
		{"max page", math.MaxInt, 7, 5, math.MaxInt, math.MaxInt - 7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit)
			if p.Page != tt.wantPage {
				t.Errorf("Expected page %d, got %d", tt.wantPage, p.Page)
			}
			if p.Offset() != tt.wantOffset {
				t.Errorf("Expected offset %d, got %d", tt.wantOffset, p.Offset())
			}
			if got := p.TotalPages(tt.total); got != tt.wantPages {
				t.Errorf("Expected %d total pages, got %d", tt.wantPages, got)
			}
		})
	}
}

func TestPaginationOffsetNeverOverflows(t *testing.T) {
	for _, limit := range []int{1, 2, 3, 1000} {
		for _, page := range []int{math.MaxInt / limit, math.MaxInt/limit + 1, math.MaxInt} {
			p := NewPagination(page, limit)
			if off := p.Offset(); off < 0 || off+p.Limit < off {
				t.Errorf("page=%d limit=%d: offset %d overflows", page, limit, off)
			}
		}
	}
}

func TestMovieFilterMatches(t *testing.T) {
	year, minutes, rate := 2020, 120, 4.5
	m := &Movie{Name: "The Dark Harbor", Category: "Action", Language: "English", Year: 2020, Time: 120, Rate: 4.5}

	tests := []struct {
		name   string
		filter MovieFilter
		want   bool
	}{
		{"empty filter", MovieFilter{}, true},
		{"category", MovieFilter{Category: "Action"}, true},
		{"wrong category", MovieFilter{Category: "Drama"}, false},
		{"search ignores case", MovieFilter{Search: "dark har"}, true},
		{"search miss", MovieFilter{Search: "light"}, false},
		{"all fields", MovieFilter{Category: "Action", Language: "English", Year: &year, Time: &minutes, Rate: &rate}, true},
		{"language mismatch", MovieFilter{Category: "Action", Language: "French"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(m); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMovieFilterKey(t *testing.T) {
	y1, y2 := 2020, 2021
	a := MovieFilter{Category: "Action", Year: &y1, Search: "Dark"}
	b := MovieFilter{Category: "Action", Year: &y1, Search: "dark"}
	c := MovieFilter{Category: "Action", Year: &y2}

	if a.Key() != b.Key() {
		t.Errorf("Expected search case to be normalized: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Error("Expected different filters to produce different keys")
	}
	if (MovieFilter{}).Key() == (MovieFilter{Year: &y1}).Key() {
		t.Error("Expected absent and present year to differ")
	}
}
