package content

import (
	"testing"

	"github.com/go-test/deep"
)

func TestArticleIDLocal(t *testing.T) {
	tests := []struct {
		name string
		id   ArticleID
		want bool
	}{
		{"remote numeric", "42", false},
		{"remote with prefix-like text", "localized-42", false},
		{"local", "local-4cb2", true},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Local(); got != tt.want {
				t.Errorf("ArticleID.Local() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPagingFor(t *testing.T) {
	tests := []struct {
		name       string
		offset     int
		pageSize   int
		total      int
		totalKnown bool
		got        int
		want       Paging
	}{
		{"first page of many", 0, 2, 10, true, 2, Paging{HasPrev: false, HasNext: true, NextOffset: 2}},
		{"middle page", 4, 2, 10, true, 2, Paging{HasPrev: true, HasNext: true, PrevOffset: 2, NextOffset: 6}},
		{"last page", 8, 2, 10, true, 2, Paging{HasPrev: true, HasNext: false, PrevOffset: 6}},
		{"single page", 0, 10, 3, true, 3, Paging{}},
		{"unknown total, full page", 0, 4, 0, false, 4, Paging{HasNext: true, NextOffset: 4}},
		{"unknown total, short page", 4, 4, 0, false, 2, Paging{HasPrev: true, PrevOffset: 0}},
		{"prev clamped to zero", 1, 4, 10, true, 4, Paging{HasPrev: true, HasNext: true, PrevOffset: 0, NextOffset: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PagingFor(tt.offset, tt.pageSize, tt.total, tt.totalKnown, tt.got)
			if diff := deep.Equal(got, tt.want); diff != nil {
				t.Errorf("PagingFor() = %v", diff)
			}
		})
	}
}

func TestRatingStars(t *testing.T) {
	tests := []struct {
		rating int
		want   string
	}{
		{0, ""},
		{1, "★"},
		{3, "★★★"},
		{5, "★★★★★"},
		{7, "★★★★★"},
		{-2, ""},
	}
	for _, tt := range tests {
		if got := RatingStars(tt.rating); got != tt.want {
			t.Errorf("RatingStars(%d) = %q, want %q", tt.rating, got, tt.want)
		}
	}
}
