package handlers

import (
	"strconv"
	"strings"
)

// parsePageNumber reads the 1-based pageNumber query value. Missing or
// malformed values fall back to the first page.
func parsePageNumber(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	page, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
