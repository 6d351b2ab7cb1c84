package feed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

// Source fetches one feed. Errors are opaque to callers; the watcher logs
// them and treats the feed as empty for that sweep.
type Source interface {
	Fetch(ctx context.Context, url string) (*Feed, error)
}

// GofeedSource downloads and parses RSS/Atom/JSON feeds with gofeed.
type GofeedSource struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewGofeedSource returns a source whose fetches are bounded by timeout
// (0 means only the caller's context applies).
func NewGofeedSource(timeout time.Duration) *GofeedSource {
	p := gofeed.NewParser()
	p.UserAgent = "newswatch/1.0"
	return &GofeedSource{parser: p, timeout: timeout}
}

func (s *GofeedSource) Fetch(ctx context.Context, url string) (*Feed, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	parsed, err := s.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}
	return FromGofeed(parsed, url), nil
}

// FromGofeed converts a parsed gofeed document. The feed title falls back to
// the URL it was fetched from.
func FromGofeed(parsed *gofeed.Feed, url string) *Feed {
	f := &Feed{Title: parsed.Title, URL: url}
	if f.Title == "" {
		f.Title = url
	}

	f.Entries = make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		f.Entries = append(f.Entries, entryFromItem(item))
	}
	return f
}

func entryFromItem(item *gofeed.Item) Entry {
	e := Entry{
		GUID:      item.GUID,
		Link:      item.Link,
		Title:     item.Title,
		Summary:   item.Description,
		Tags:      append([]string(nil), item.Categories...),
		Published: item.PublishedParsed,
		Updated:   item.UpdatedParsed,
	}
	if item.Content != "" {
		e.Content = []ContentBlock{{Type: "text/html", Value: item.Content}}
	}
	e.Thumbnail = thumbnail(item)
	return e
}

// FeedsConfig is the YAML feed list:
//
//	feeds:
//	  - https://...
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads the feed URL list from a YAML file.
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Feeds, nil
}
