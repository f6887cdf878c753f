package handlers

import (
	"errors"
	"strconv"
)

// parsePaginationParams applies the catalog defaults (page 1, 12 per page)
// when either value is absent.
func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(12)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errors.New("invalid pagination params")
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 || l > 100 {
			return 0, 0, errors.New("invalid pagination params")
		}
		limit = l
	}

	return page, limit, nil
}
