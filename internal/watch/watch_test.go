package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deusflow/newswatch/internal/analysis"
	"github.com/deusflow/newswatch/internal/feed"
	"github.com/deusflow/newswatch/internal/filter"
	"github.com/deusflow/newswatch/internal/metrics"
	"github.com/deusflow/newswatch/internal/notify"
	"github.com/deusflow/newswatch/internal/seen"
	"github.com/deusflow/newswatch/internal/topic"
)

type fakeSource struct {
	mu     sync.Mutex
	feeds  map[string]*feed.Feed
	errs   map[string]error
	called []string
}

func (s *fakeSource) Fetch(_ context.Context, url string) (*feed.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called = append(s.called, url)
	if err := s.errs[url]; err != nil {
		return nil, err
	}
	f, ok := s.feeds[url]
	if !ok {
		return nil, fmt.Errorf("unknown feed %s", url)
	}
	return f, nil
}

type fakeSink struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (s *fakeSink) Send(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func newWatcher(t *testing.T, src *fakeSource, sink *fakeSink, keyword string, feeds ...string) *Watcher {
	t.Helper()
	k, err := filter.NewKeyword(keyword)
	if err != nil {
		t.Fatal(err)
	}
	return New(Config{Feeds: feeds}, Deps{
		Source:    src,
		Seen:      seen.New(100),
		Keyword:   k,
		Freshness: filter.NewFreshness(24),
		Engine:    analysis.NewEngine(),
		Sink:      sink,
		Metrics:   metrics.New(),
	})
}

func TestSweep_EndToEndFallback(t *testing.T) {
	published := time.Now().Add(-30 * time.Minute)
	src := &fakeSource{feeds: map[string]*feed.Feed{
		"https://wire.example/rss": {
			Title: "Market Wire",
			URL:   "https://wire.example/rss",
			Entries: []feed.Entry{{
				GUID:      "fed-1",
				Link:      "https://wire.example/fed",
				Title:     "Fed Holds Rates Steady",
				Summary:   "The Federal Reserve kept rates unchanged citing inflation concerns.",
				Published: &published,
				Thumbnail: "https://img.example/fed.jpg",
			}},
		},
	}}
	sink := &fakeSink{}
	w := newWatcher(t, src, sink, "", "https://wire.example/rss")

	stats := w.Sweep(context.Background())
	if stats.Decisions[Sent] != 1 || sink.count() != 1 {
		t.Fatalf("expected one send, stats=%v sent=%d", stats.Decisions, sink.count())
	}

	n := sink.sent[0]
	if !strings.Contains(n.Summary, "Fed Holds Rates Steady") {
		t.Errorf("summary should contain the title: %q", n.Summary)
	}
	if n.Footer != "Market Wire" || n.Link != "https://wire.example/fed" || n.ThumbnailURL != "https://img.example/fed.jpg" {
		t.Errorf("unexpected notification: %+v", n)
	}
	if !n.PublishedAt.Equal(published.UTC()) {
		t.Errorf("published = %v", n.PublishedAt)
	}

	fed, _ := topic.ImpactOf(topic.Fed)
	infl, _ := topic.ImpactOf(topic.Inflation)
	want := map[string][2]string{
		notify.LabelCrypto:  {fed.Crypto, infl.Crypto},
		notify.LabelGold:    {fed.Gold, infl.Gold},
		notify.LabelOutlook: {fed.Outlook, infl.Outlook},
	}
	if len(n.Fields) != 3 {
		t.Fatalf("fields = %+v", n.Fields)
	}
	for _, f := range n.Fields {
		pair := want[f.Name]
		if f.Value != pair[0]+" "+pair[1] && f.Value != pair[1]+" "+pair[0] {
			t.Errorf("%s = %q, want concatenation of fed and inflation notes", f.Name, f.Value)
		}
	}
}

func TestSweep_DedupAcrossSweeps(t *testing.T) {
	src := &fakeSource{feeds: map[string]*feed.Feed{
		"a": {Title: "A", Entries: []feed.Entry{{GUID: "1", Title: "One"}, {GUID: "2", Title: "Two"}}},
	}}
	sink := &fakeSink{}
	w := newWatcher(t, src, sink, "", "a")

	w.Sweep(context.Background())
	stats := w.Sweep(context.Background())

	if sink.count() != 2 {
		t.Errorf("sent = %d, want 2", sink.count())
	}
	if stats.Decisions[Duplicate] != 2 {
		t.Errorf("second sweep should see duplicates, got %v", stats.Decisions)
	}
}

func TestSweep_FeedErrorIsIsolated(t *testing.T) {
	src := &fakeSource{
		feeds: map[string]*feed.Feed{
			"good": {Title: "Good", Entries: []feed.Entry{{Link: "https://good/1", Title: "Item"}}},
		},
		errs: map[string]error{"bad": errors.New("timeout")},
	}
	sink := &fakeSink{}
	w := newWatcher(t, src, sink, "", "bad", "good")

	stats := w.Sweep(context.Background())
	if stats.FeedErrors != 1 {
		t.Errorf("FeedErrors = %d", stats.FeedErrors)
	}
	if sink.count() != 1 {
		t.Errorf("good feed should still deliver, sent = %d", sink.count())
	}
	if strings.Join(src.called, ",") != "bad,good" {
		t.Errorf("feeds must be fetched in configured order, got %v", src.called)
	}
}

func TestSweep_CapsEntriesPerFeed(t *testing.T) {
	entries := make([]feed.Entry, 25)
	for i := range entries {
		entries[i] = feed.Entry{GUID: fmt.Sprintf("id-%d", i), Title: "Item"}
	}
	src := &fakeSource{feeds: map[string]*feed.Feed{"a": {Title: "A", Entries: entries}}}
	sink := &fakeSink{}
	w := newWatcher(t, src, sink, "", "a")

	w.Sweep(context.Background())
	if sink.count() != DefaultMaxEntriesPerFeed {
		t.Errorf("sent = %d, want %d", sink.count(), DefaultMaxEntriesPerFeed)
	}
	if w.seen.Contains("id-20") {
		t.Errorf("entries past the cap must not be remembered")
	}
}

func TestProcessEntry_Decisions(t *testing.T) {
	stale := time.Now().Add(-25 * time.Hour)
	f := &feed.Feed{Title: "F", URL: "https://f/rss"}

	sink := &fakeSink{}
	w := newWatcher(t, &fakeSource{}, sink, "fed|inflation")
	ctx := context.Background()

	if d := w.ProcessEntry(ctx, f, &feed.Entry{Title: "Fed without id"}); d != SkippedNoID {
		t.Errorf("no id: %v", d)
	}
	if w.seen.Len() != 0 {
		t.Errorf("entries without id must not consume capacity")
	}

	sports := &feed.Entry{GUID: "s1", Title: "Local Sports Update"}
	if d := w.ProcessEntry(ctx, f, sports); d != KeywordRejected {
		t.Errorf("sports: %v", d)
	}
	if !w.seen.Contains("s1") {
		t.Errorf("keyword-rejected entry should still be remembered")
	}
	if d := w.ProcessEntry(ctx, f, sports); d != Duplicate {
		t.Errorf("refetched rejected entry should be a duplicate, got %v", d)
	}

	old := &feed.Entry{GUID: "o1", Title: "Fed minutes", Published: &stale}
	if d := w.ProcessEntry(ctx, f, old); d != Stale {
		t.Errorf("stale: %v", d)
	}

	fresh := &feed.Entry{GUID: "f1", Title: "Fed Signals Rate Pause"}
	if d := w.ProcessEntry(ctx, f, fresh); d != Sent {
		t.Errorf("fresh: %v", d)
	}
	if sink.count() != 1 {
		t.Errorf("only the fresh matching entry should be sent, got %d", sink.count())
	}
}

func TestProcessEntry_DefaultsTitleAndLink(t *testing.T) {
	sink := &fakeSink{}
	w := newWatcher(t, &fakeSource{}, sink, "")
	f := &feed.Feed{Title: "F", URL: "https://f/rss"}

	w.ProcessEntry(context.Background(), f, &feed.Entry{GUID: "g"})
	n := sink.sent[0]
	if n.Title != "(Untitled)" || n.Link != "https://f/rss" {
		t.Errorf("unexpected defaults: %+v", n)
	}
	if n.Summary == "" {
		t.Errorf("summary must never be empty")
	}
}

func TestProcessEntry_SendFailure(t *testing.T) {
	sink := &fakeSink{err: errors.New("down")}
	w := newWatcher(t, &fakeSource{}, sink, "")
	f := &feed.Feed{Title: "F"}

	if d := w.ProcessEntry(context.Background(), f, &feed.Entry{GUID: "x", Title: "T"}); d != SendFailed {
		t.Errorf("decision = %v", d)
	}
	if w.metrics.Healthy() {
		t.Errorf("send failure should mark metrics unhealthy")
	}
}

func TestSweep_SavesState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	src := &fakeSource{feeds: map[string]*feed.Feed{"a": {Title: "A", Entries: []feed.Entry{{GUID: "1"}}}}}
	w := New(Config{Feeds: []string{"a"}, StatePath: path}, Deps{
		Source:  src,
		Sink:    &fakeSink{},
		Metrics: metrics.New(),
	})
	w.Sweep(context.Background())

	restored := seen.New(10)
	if err := restored.Load(path); err != nil {
		t.Fatal(err)
	}
	if !restored.Contains("1") {
		t.Errorf("snapshot should contain the processed id")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	src := &fakeSource{feeds: map[string]*feed.Feed{"a": {Title: "A"}}}
	w := New(Config{Feeds: []string{"a"}, Interval: time.Hour}, Deps{
		Source:  src,
		Sink:    &fakeSink{},
		Metrics: metrics.New(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if len(src.called) != 1 {
		t.Errorf("expected exactly one sweep before cancel, got %d", len(src.called))
	}
}
