package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/Kush-Singh-26/folio/builder/models"
)

func TestSortPosts(t *testing.T) {
	tests := []struct {
		name     string
		posts    []models.Post
		expected []string
	}{
		{
			name: "date descending",
			posts: []models.Post{
				{ID: "old", Date: "2023-01-01"},
				{ID: "new", Date: "2025-06-30"},
				{ID: "mid", Date: "2024-12-31"},
			},
			expected: []string{"new", "mid", "old"},
		},
		{
			name: "equal dates keep discovery order",
			posts: []models.Post{
				{ID: "first", Date: "2024-01-01"},
				{ID: "second", Date: "2024-01-01"},
				{ID: "newer", Date: "2024-02-01"},
				{ID: "third", Date: "2024-01-01"},
			},
			expected: []string{"newer", "first", "second", "third"},
		},
		{
			name:     "empty slice",
			posts:    []models.Post{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortPosts(tt.posts)
			ids := make([]string, 0, len(tt.posts))
			for _, p := range tt.posts {
				ids = append(ids, p.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("SortPosts() order = %v, want %v", ids, tt.expected)
			}
		})
	}
}

func TestGetString(t *testing.T) {
	m := map[string]interface{}{
		"str":  "hello",
		"date": time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
		"num":  42,
		"nil":  nil,
	}
	tests := []struct {
		key, want string
	}{
		{"str", "hello"},
		{"date", "2024-03-09"},
		{"num", "42"},
		{"nil", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := GetString(m, tt.key); got != tt.want {
			t.Errorf("GetString(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestGetSlice(t *testing.T) {
	m := map[string]interface{}{
		"tags":   []interface{}{"go", 1, true},
		"scalar": "go",
	}
	if got := GetSlice(m, "tags"); strings.Join(got, ",") != "go,1,true" {
		t.Errorf("GetSlice(tags) = %v", got)
	}
	if got := GetSlice(m, "scalar"); got != nil {
		t.Errorf("GetSlice(scalar) = %v, want nil", got)
	}
	if got := GetSlice(m, "missing"); got != nil {
		t.Errorf("GetSlice(missing) = %v, want nil", got)
	}
}

func TestGetBool(t *testing.T) {
	m := map[string]interface{}{"yes": true, "no": false, "text": "false"}
	tests := []struct {
		key       string
		wantValue bool
		wantOK    bool
	}{
		{"yes", true, true},
		{"no", false, true},
		{"text", false, false},
		{"missing", false, false},
	}
	for _, tt := range tests {
		v, ok := GetBool(m, tt.key)
		if v != tt.wantValue || ok != tt.wantOK {
			t.Errorf("GetBool(%q) = (%v, %v), want (%v, %v)", tt.key, v, ok, tt.wantValue, tt.wantOK)
		}
	}
}
