// Package text normalizes feed markup into the plain strings used for
// filtering, classification and fallback summaries.
package text

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/deusflow/newswatch/internal/feed"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripMarkup removes angle-bracket tag spans and trims the result.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// CollapseWhitespace replaces every whitespace run with one space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// Aggregate builds the classification/context string for an entry: title,
// summary, description, text content blocks and a "Tags: ..." segment.
func Aggregate(e *feed.Entry) string {
	components := make([]string, 0, 4+len(e.Content))
	for _, v := range []string{e.Title, e.Summary, e.Description} {
		if s := StripMarkup(v); s != "" {
			components = append(components, s)
		}
	}
	for _, block := range e.Content {
		if !block.IsText() {
			continue
		}
		if s := StripMarkup(block.Value); s != "" {
			components = append(components, s)
		}
	}
	if tags := e.TagTerms(); tags != "" {
		components = append(components, "Tags: "+tags)
	}
	return CollapseWhitespace(strings.Join(components, " "))
}

// PrimarySummary returns the first non-empty of summary, description and the
// first content block, stripped and normalized.
func PrimarySummary(e *feed.Entry) string {
	source := e.Summary
	if source == "" {
		source = e.Description
	}
	if source == "" && len(e.Content) > 0 {
		source = e.Content[0].Value
	}
	return CollapseWhitespace(StripMarkup(source))
}

// Shorten collapses whitespace and, when the text exceeds width runes,
// keeps as many whole words as fit together with the placeholder.
func Shorten(s string, width int, placeholder string) string {
	s = CollapseWhitespace(s)
	if utf8.RuneCountInString(s) <= width {
		return s
	}

	budget := width - utf8.RuneCountInString(placeholder)
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(s) {
		wl := utf8.RuneCountInString(word)
		next := n + wl
		if n > 0 {
			next++
		}
		if next > budget {
			break
		}
		if n > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
		n = next
	}
	return strings.TrimRight(b.String(), " ") + placeholder
}
