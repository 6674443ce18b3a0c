package common

import "errors"

// ErrInvalidPage is returned before any query runs when a page request
// is out of bounds.
var ErrInvalidPage = errors.New("invalid page request")

const (
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

// PageRequest is a 1-indexed pagination window shared by every
// paginated read in the system.
type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) Validate() error {
	if p.Page < 1 || p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return ErrInvalidPage
	}
	return nil
}

// Offset computes skip = (page-1)*pageSize. Call Validate first.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}
