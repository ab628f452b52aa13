package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPagination(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"/api/users", false},
		{"/api/users?page=1", true},
		{"/api/users?limit=5", true},
		{"/api/users?page=2&limit=20", true},
		{"/api/users?other=1", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			assert.Equal(t, tt.want, HasPagination(r))
		})
	}
}

func TestExtractPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/api/users", 1, 10},
		{"explicit", "/api/users?page=3&limit=25", 3, 25},
		{"zero page falls back", "/api/users?page=0", 1, 10},
		{"negative limit falls back", "/api/users?limit=-5", 1, 10},
		{"non-numeric falls back", "/api/users?page=abc&limit=xyz", 1, 10},
		{"limit capped at 100", "/api/users?limit=500", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			params := ExtractPaginationParams(r)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, PaginationParams{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 50, PaginationParams{Page: 3, Limit: 25}.Offset())
}

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{"exact multiple", 20, 10, 2},
		{"partial last page", 25, 10, 3},
		{"single short page", 5, 10, 1},
		{"empty", 0, 10, 0},
		{"zero limit", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTotalPages(tt.total, tt.limit))
		})
	}
}

func TestBuildPaginationInfo(t *testing.T) {
	info := BuildPaginationInfo(2, 10, 25)

	assert.Equal(t, 2, info.Page)
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, 25, info.Total)
	assert.Equal(t, 3, info.TotalPages)
}
