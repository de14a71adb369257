// Package dates parses the calendar dates accepted by the API and renders
// them in the canonical YYYY-MM-DD form that is stored and returned.
package dates

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Layout is the canonical storage and response format.
const Layout = "2006-01-02"

// layouts are tried in order. ISO first since that's what most clients send.
var layouts = []string{
	Layout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"01/02/2006",
	"2006/01/02",
}

// ErrInvalid is returned when a value matches none of the accepted layouts.
var ErrInvalid = errors.New("invalid calendar date")

// Parse reads a calendar date in any of the accepted layouts. Any time of day
// or zone information is dropped.
func Parse(value string) (time.Time, error) {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return time.Time{}, errors.WithStack(ErrInvalid)
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrInvalid, "%q", value)
}

// Normalize parses value and formats it as YYYY-MM-DD.
func Normalize(value string) (string, error) {
	t, err := Parse(value)
	if err != nil {
		return "", err
	}
	return t.Format(Layout), nil
}
