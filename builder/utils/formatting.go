package utils

import (
	"fmt"
	"sort"
	"time"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// SortPosts orders posts by date, newest first. YYYY-MM-DD strings compare
// chronologically; equal dates keep their discovery order.
func SortPosts(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
}

// GetString coerces a frontmatter value to a string.
// YAML timestamps are rendered as dates.
func GetString(m map[string]interface{}, k string) string {
	v, ok := m[k]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return FormatDate(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// GetSlice coerces a frontmatter list to strings. Non-list values yield nil.
func GetSlice(m map[string]interface{}, k string) []string {
	var res []string
	if v, ok := m[k]; ok {
		if l, ok := v.([]interface{}); ok {
			for _, i := range l {
				res = append(res, fmt.Sprintf("%v", i))
			}
		}
	}
	return res
}

// GetBool returns a boolean frontmatter value and whether it was present as one.
func GetBool(m map[string]interface{}, k string) (value bool, ok bool) {
	if v, exists := m[k]; exists {
		b, isBool := v.(bool)
		return b, isBool
	}
	return false, false
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
