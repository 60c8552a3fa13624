package utils

import (
	"fmt"
	"strings"
	"time"
)

// GenerateSlug builds a unique organization slug from its name: lowercased,
// spaces replaced with dashes, with a timestamp suffix to avoid collisions.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
}
