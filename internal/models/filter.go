// internal/models/filter.go
package models

import (
	"fmt"
	"strings"
)

// StatusFilter selects tasks by completion state
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// ParseStatusFilter accepts all, pending or completed. Empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("%w: unknown status filter %q", ErrValidation, s)
	}
}

// Matches reports whether t passes the filter
func (f StatusFilter) Matches(t Task) bool {
	switch f {
	case StatusPending:
		return !t.IsCompleted
	case StatusCompleted:
		return t.IsCompleted
	default:
		return true
	}
}
