// Package feed holds the read-only view of feed entries and the gofeed-backed
// source that produces them.
package feed

import (
	"strings"
	"time"
)

// ContentBlock is one content element of an entry (Atom content, RSS
// content:encoded). Type is a MIME-ish hint and may be empty.
type ContentBlock struct {
	Type  string
	Value string
}

// IsText reports whether the block carries readable text or markup.
func (b ContentBlock) IsText() bool {
	t := strings.ToLower(strings.TrimSpace(b.Type))
	switch {
	case t == "", t == "text", t == "html", t == "xhtml":
		return true
	case strings.HasPrefix(t, "text/"), strings.HasSuffix(t, "+xml") && strings.Contains(t, "xhtml"):
		return true
	}
	return false
}

// Entry is one article yielded by a feed for a single sweep. It is never
// mutated after the source builds it.
type Entry struct {
	ID          string
	GUID        string
	Link        string
	Title       string
	Summary     string
	Description string
	Content     []ContentBlock
	Tags        []string
	Published   *time.Time
	Updated     *time.Time
	Thumbnail   string
}

// UID returns the first non-empty identifier among id, guid and link.
// An empty result means the entry cannot be deduplicated.
func (e *Entry) UID() string {
	for _, v := range []string{e.ID, e.GUID, e.Link} {
		if v != "" {
			return v
		}
	}
	return ""
}

// TagTerms joins tag terms with single spaces, skipping empty ones.
func (e *Entry) TagTerms() string {
	terms := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return strings.Join(terms, " ")
}

// Feed is the result of one fetch.
type Feed struct {
	Title   string
	URL     string
	Entries []Entry
}
