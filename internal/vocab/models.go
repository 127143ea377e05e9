// Package vocab records translation lookups so learners can review the
// words they looked up.
package vocab

import (
	"errors"
	"time"
)

// ErrLookupNotFound is returned when no lookup has the requested ID.
var ErrLookupNotFound = errors.New("lookup not found")

// Lookup is one successful translation.
type Lookup struct {
	ID          int64
	Query       string
	Translation string
	Explains    []string
	Phonetic    string
	Season      int
	Episode     int
	CreatedAt   time.Time
}

// ListOptions filters and pages List results. Zero values mean no filter.
type ListOptions struct {
	Season  int
	Episode int
	Limit   int
	Offset  int
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func (o ListOptions) limit() int {
	switch {
	case o.Limit <= 0:
		return defaultListLimit
	case o.Limit > maxListLimit:
		return maxListLimit
	}
	return o.Limit
}
