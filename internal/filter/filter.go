// Package filter holds the keyword and freshness gates applied to new
// entries.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/deusflow/newswatch/internal/feed"
)

// Keyword matches entries against an optional case-insensitive pattern.
// The zero value (or a nil *Keyword) passes everything.
type Keyword struct {
	pattern *regexp.Regexp
}

// NewKeyword compiles pattern case-insensitively. An empty pattern yields a
// filter that passes every entry.
func NewKeyword(pattern string) (*Keyword, error) {
	if pattern == "" {
		return &Keyword{}, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid keyword pattern %q: %w", pattern, err)
	}
	return &Keyword{pattern: re}, nil
}

func (k *Keyword) Enabled() bool {
	return k != nil && k.pattern != nil
}

// String returns the configured pattern without the case flag.
func (k *Keyword) String() string {
	if !k.Enabled() {
		return ""
	}
	return strings.TrimPrefix(k.pattern.String(), "(?i)")
}

// Match searches title, summary, description and tag terms. Content blocks
// and thumbnails are not searched.
func (k *Keyword) Match(e *feed.Entry) bool {
	if !k.Enabled() {
		return true
	}
	return k.pattern.MatchString(haystack(e))
}

func haystack(e *feed.Entry) string {
	parts := []string{e.Title + " " + e.Summary + " " + e.Description}
	if tags := e.TagTerms(); tags != "" {
		parts = append(parts, tags)
	}
	return strings.Join(parts, " ")
}

// PublishedAt derives the entry timestamp from published, then updated.
// Entries without either are stamped now and therefore always fresh.
func PublishedAt(e *feed.Entry, now time.Time) time.Time {
	switch {
	case e.Published != nil && !e.Published.IsZero():
		return e.Published.UTC()
	case e.Updated != nil && !e.Updated.IsZero():
		return e.Updated.UTC()
	}
	return now.UTC()
}

// Freshness drops entries older than MaxAge. MaxAge <= 0 disables the check.
type Freshness struct {
	MaxAge time.Duration
	Now    func() time.Time
}

// NewFreshness converts a max age in hours; fractional hours are honored.
func NewFreshness(maxAgeHours float64) *Freshness {
	return &Freshness{
		MaxAge: time.Duration(maxAgeHours * float64(time.Hour)),
		Now:    time.Now,
	}
}

func (f *Freshness) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// Check returns the derived publish time, the age at the evaluation moment
// and whether the entry is fresh.
func (f *Freshness) Check(e *feed.Entry) (publishedAt time.Time, age time.Duration, fresh bool) {
	now := f.now()
	publishedAt = PublishedAt(e, now)
	age = now.Sub(publishedAt)
	if f.MaxAge <= 0 {
		return publishedAt, age, true
	}
	return publishedAt, age, age <= f.MaxAge
}

// Fresh is Check without the details.
func (f *Freshness) Fresh(e *feed.Entry) bool {
	_, _, fresh := f.Check(e)
	return fresh
}
