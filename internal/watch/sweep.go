package watch

import (
	"context"
	"time"

	"github.com/deusflow/newswatch/internal/analysis"
	"github.com/deusflow/newswatch/internal/feed"
	"github.com/deusflow/newswatch/internal/notify"
)

// Decision is what happened to one entry.
type Decision int

const (
	Sent Decision = iota
	SkippedNoID
	Duplicate
	KeywordRejected
	Stale
	SendFailed
)

func (d Decision) String() string {
	switch d {
	case Sent:
		return "sent"
	case SkippedNoID:
		return "no-id"
	case Duplicate:
		return "duplicate"
	case KeywordRejected:
		return "keyword-rejected"
	case Stale:
		return "stale"
	case SendFailed:
		return "send-failed"
	}
	return "unknown"
}

// SweepStats counts decisions of one sweep.
type SweepStats struct {
	Feeds      int
	FeedErrors int
	Decisions  map[Decision]int
}

// Sweep runs one pass over every configured feed in order. A failing feed
// contributes no entries and does not affect the others.
func (w *Watcher) Sweep(ctx context.Context) SweepStats {
	start := time.Now()
	stats := SweepStats{Decisions: make(map[Decision]int)}

	for _, url := range w.cfg.Feeds {
		if ctx.Err() != nil {
			break
		}
		stats.Feeds++

		f, err := w.source.Fetch(ctx, url)
		if err != nil {
			stats.FeedErrors++
			w.metrics.RecordFeedError(err)
			w.log.Error("Gagal memuat feed", "feed", url, "error", err)
			continue
		}

		entries := f.Entries
		if len(entries) > w.cfg.MaxEntriesPerFeed {
			entries = entries[:w.cfg.MaxEntriesPerFeed]
		}
		for i := range entries {
			if ctx.Err() != nil {
				break
			}
			stats.Decisions[w.ProcessEntry(ctx, f, &entries[i])]++
		}
	}

	w.saveState()
	w.metrics.RecordSweep(time.Since(start))
	w.metrics.SetLastRun(stats.Decisions[SendFailed] == 0)
	w.log.Debug("Sweep finished",
		"feeds", stats.Feeds,
		"feed_errors", stats.FeedErrors,
		"sent", stats.Decisions[Sent],
		"duration", time.Since(start))
	return stats
}

// ProcessEntry applies, in order: identifier, dedup, keyword, freshness,
// analysis and delivery. The entry is remembered before filtering, so a
// rejected entry is never reconsidered.
func (w *Watcher) ProcessEntry(ctx context.Context, f *feed.Feed, e *feed.Entry) Decision {
	w.metrics.IncrementEntriesSeen()

	uid := e.UID()
	if uid == "" {
		w.metrics.IncrementMissingID()
		return SkippedNoID
	}
	if !w.seen.Remember(uid) {
		w.metrics.IncrementDuplicates()
		return Duplicate
	}
	if !w.keyword.Match(e) {
		w.metrics.IncrementKeywordFiltered()
		return KeywordRejected
	}

	publishedAt, age, fresh := w.freshness.Check(e)
	if !fresh {
		w.metrics.IncrementStaleFiltered()
		w.log.Debug("Lewati berita lama", "age_hours", age.Hours(), "title", e.Title)
		return Stale
	}

	outcome := w.engine.Analyze(ctx, e)
	n := buildNotification(f, e, publishedAt, outcome.Result)

	if err := w.sink.Send(ctx, n); err != nil {
		w.metrics.RecordSendFailure(err)
		w.log.Error("Gagal mengirim berita", "title", n.Title, "feed", f.Title, "error", err)
		return SendFailed
	}
	w.metrics.IncrementSent()
	w.log.Info("Mengirim berita", "title", n.Title, "feed", f.Title, "analysis", outcome.Source)
	return Sent
}

func buildNotification(f *feed.Feed, e *feed.Entry, publishedAt time.Time, r analysis.Result) notify.Notification {
	title := e.Title
	if title == "" {
		title = untitled
	}
	link := e.Link
	if link == "" {
		link = f.URL
	}
	return notify.Notification{
		Title:       title,
		Link:        link,
		PublishedAt: publishedAt,
		Summary:     r.Summary,
		Fields: []notify.Field{
			{Name: notify.LabelCrypto, Value: r.Crypto},
			{Name: notify.LabelGold, Value: r.Gold},
			{Name: notify.LabelOutlook, Value: r.Outlook},
		},
		Footer:       f.Title,
		ThumbnailURL: e.Thumbnail,
	}
}

func (w *Watcher) saveState() {
	if w.cfg.StatePath == "" {
		return
	}
	if err := w.seen.Save(w.cfg.StatePath); err != nil {
		w.log.Warn("Failed to save seen set", "path", w.cfg.StatePath, "error", err)
	}
}
