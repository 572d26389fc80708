package repositories

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions carries the list filters shared by every list endpoint.
// Empty fields do not filter.
type ListOptions struct {
	Page     int
	Limit    int
	Search   string
	Status   string
	Category string
	From     *time.Time
	To       *time.Time
}

// Normalize clamps paging to sane bounds
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	o.Search = strings.TrimSpace(o.Search)
	return o
}

func (o ListOptions) Skip() int64 {
	return int64((o.Page - 1) * o.Limit)
}

// InRange reports whether t falls inside [From, To]
func (o ListOptions) InRange(t time.Time) bool {
	if o.From != nil && t.Before(*o.From) {
		return false
	}
	if o.To != nil && t.After(*o.To) {
		return false
	}
	return true
}

// Paginate slices an already filtered result the same way the Mongo
// repositories apply skip and limit.
func Paginate[T any](items []T, opts ListOptions) []T {
	opts = opts.Normalize()
	start := int(opts.Skip())
	if start >= len(items) {
		return []T{}
	}
	end := start + opts.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
