// Package segment splits a time series table into runs of non-decreasing dates.
package segment

import (
	"fmt"
	"strings"
	"time"

	"cyclestats/lib/table"
)

var ErrColumnNotFound = fmt.Errorf("column not found")

var DefaultLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
}

type options struct {
	layouts  []string
	location *time.Location
}

type Option func(*options)

// WithLayouts overrides the layouts tried (in order) when parsing a date cell.
func WithLayouts(layouts ...string) Option {
	return func(o *options) {
		o.layouts = layouts
	}
}

// WithLocation sets the location used for layouts that carry no zone, a
// nil location is ignored.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

func parseDate(value string, o options) (time.Time, error) {
	value = strings.TrimSpace(value)
	var firstErr error
	for _, layout := range o.layouts {
		parsed, err := time.ParseInLocation(layout, value, o.location)
		if err == nil {
			return parsed, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("no date layouts configured")
	}
	return time.Time{}, firstErr
}

// SplitIndices returns the positions at which a date is strictly earlier
// than the one before it. The first position is never a split point.
func SplitIndices(dates []time.Time) []int {
	var splits []int
	for i := 1; i < len(dates); i++ {
		if dates[i].Before(dates[i-1]) {
			splits = append(splits, i)
		}
	}
	return splits
}

// SplitByDateDecrease partitions t into consecutive segments, starting a new
// segment at every row whose date is earlier than the previous row's.
// Concatenating the segments gives back t. A table that never decreases
// (including an empty one) yields exactly one segment.
func SplitByDateDecrease(t table.Table, dateColumn string, opts ...Option) ([]table.Table, error) {
	o := options{
		layouts:  DefaultLayouts,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(&o)
	}

	col := t.ColumnIndex(dateColumn)
	if col < 0 {
		return nil, fmt.Errorf("split by '%s': %w", dateColumn, ErrColumnNotFound)
	}

	dates := make([]time.Time, len(t.Rows))
	for i, row := range t.Rows {
		if col >= len(row) {
			return nil, fmt.Errorf("split by '%s': row %d has no value for the column", dateColumn, i)
		}
		parsed, err := parseDate(row[col], o)
		if err != nil {
			return nil, fmt.Errorf("split by '%s': row %d: %w", dateColumn, i, err)
		}
		dates[i] = parsed
	}

	var segments []table.Table
	start := 0
	for _, idx := range SplitIndices(dates) {
		segments = append(segments, t.Slice(start, idx))
		start = idx
	}
	segments = append(segments, t.Slice(start, len(t.Rows)))

	return segments, nil
}
