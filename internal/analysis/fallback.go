package analysis

import (
	"strings"

	"github.com/deusflow/newswatch/internal/text"
	"github.com/deusflow/newswatch/internal/topic"
)

const (
	snippetWidth       = 280
	snippetPlaceholder = "..."
)

// FallbackSummary builds a summary from the title, a shortened snippet of
// base and a hint naming the detected topics.
func FallbackSummary(title, base string, topics topic.Set) string {
	snippet := text.Shorten(base, snippetWidth, snippetPlaceholder)

	hint := ""
	if topics.Len() > 0 {
		hint = " Fokus utama: " + strings.Join(topics.Labels(), ", ") + "."
	}

	switch {
	case snippet != "":
		return title + ". Ringkasan singkat: " + snippet + hint
	case title != "":
		return title + ". Detail lengkap tersedia pada tautan berita." + hint
	}
	return "Ringkasan belum tersedia, silakan cek tautan berita untuk detail."
}

// FallbackImpact joins the canned notes of every detected topic per field.
// A field no topic covers gets the generic sentence.
func FallbackImpact(topics topic.Set) topic.Impact {
	var crypto, gold, outlook []string
	for _, t := range topics.Sorted() {
		imp, ok := topic.ImpactOf(t)
		if !ok {
			continue
		}
		if imp.Crypto != "" {
			crypto = append(crypto, imp.Crypto)
		}
		if imp.Gold != "" {
			gold = append(gold, imp.Gold)
		}
		if imp.Outlook != "" {
			outlook = append(outlook, imp.Outlook)
		}
	}

	generic := topic.Generic()
	return topic.Impact{
		Crypto:  joinOr(crypto, generic.Crypto),
		Gold:    joinOr(gold, generic.Gold),
		Outlook: joinOr(outlook, generic.Outlook),
	}
}

func joinOr(notes []string, fallback string) string {
	if len(notes) == 0 {
		return fallback
	}
	return strings.Join(notes, " ")
}

// Fallback is the complete local analysis of an entry.
func Fallback(title, primary, aggregate string, topics topic.Set) Result {
	base := primary
	if base == "" {
		base = aggregate
	}
	imp := FallbackImpact(topics)
	return Result{
		Summary: FallbackSummary(title, base, topics),
		Crypto:  imp.Crypto,
		Gold:    imp.Gold,
		Outlook: imp.Outlook,
	}
}
