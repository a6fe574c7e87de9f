package pagination

import (
	"fmt"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize applies the list endpoint defaults: page < 1 is the first page,
// limit < 1 is DefaultLimit.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// Calculate turns a page and limit into an offset. A limit above MaxLimit
// falls back to DefaultLimit.
func Calculate(page, limit int) (offset, size int) {
	page, limit = Normalize(page, limit)
	if limit > MaxLimit {
		limit = DefaultLimit
	}
	offset = (page - 1) * limit
	return offset, limit
}

// Query renders "page=<n>&limit=<m>" in that order.
func Query(page, limit int) string {
	page, limit = Normalize(page, limit)
	return fmt.Sprintf("page=%d&limit=%d", page, limit)
}

func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
