package services

import (
	"errors"
	"strconv"
)

const DefaultPagingLimit = 12
const MaxPagingLimit = 50

var invalidPagingError = errors.New("Invalid paging parameters.")

type Pagination[T any] struct {
	Items      []T  `json:"items"`
	Limit      int  `json:"limit"`
	NextOffset int  `json:"nextOffset"`
	PrevOffset int  `json:"prevOffset"`
	NextPage   int  `json:"nextPage"`
	PrevPage   int  `json:"prevPage"`
	Page       int  `json:"page"`
	HasMore    bool `json:"hasMore"`
}

// NewPagination builds a page from up to limit+1 fetched items; the extra one
// only signals that a next page exists.
func NewPagination[T any](offset, limit int, items []T) Pagination[T] {
	if limit <= 0 {
		limit = DefaultPagingLimit
	}

	var pagination Pagination[T]
	pagination.Limit = limit
	pagination.Items = items[:min(len(items), limit)]
	if pagination.Items == nil {
		pagination.Items = []T{}
	}
	pagination.Page = 1 + offset/limit

	pagination.HasMore = len(items) > limit
	if pagination.HasMore {
		pagination.NextOffset = offset + limit
		pagination.NextPage = 1 + pagination.NextOffset/limit
	} else {
		pagination.NextOffset = -1
	}

	if offset > 0 {
		pagination.PrevOffset = max(offset-limit, 0)
		pagination.PrevPage = 1 + pagination.PrevOffset/limit
	} else {
		pagination.PrevOffset = -1
	}

	return pagination
}

// ParsePaging reads the offset and limit query parameters. Empty values fall
// back to the defaults.
func ParsePaging(offsetStr, limitStr string) (offset, limit int, err error) {
	limit = DefaultPagingLimit
	if offsetStr != "" {
		if offset, err = strconv.Atoi(offsetStr); err != nil || offset < 0 {
			return 0, 0, invalidPagingError
		}
	}
	if limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil || limit <= 0 {
			return 0, 0, invalidPagingError
		}
		limit = min(limit, MaxPagingLimit)
	}

	return offset, limit, nil
}
