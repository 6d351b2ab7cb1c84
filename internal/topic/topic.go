// Package topic classifies entry text into fixed macro/market topics and
// carries the static impact notes used by the fallback analysis.
package topic

import (
	"sort"
	"strings"
)

// Topic is one of the fixed classification labels.
type Topic string

const (
	Fed       Topic = "fed"
	Inflation Topic = "inflation"
	War       Topic = "war"
	China     Topic = "china"
	Economy   Topic = "economy"
	Bank      Topic = "bank"
	Energy    Topic = "energy"
	Crypto    Topic = "crypto"
)

var all = []Topic{Fed, Inflation, War, China, Economy, Bank, Energy, Crypto}

// keywords are matched as plain substrings of the lower-cased text.
var keywords = map[Topic][]string{
	Fed:       {"powell", "federal reserve", "fed", "fomc", "rate", "policy", "treasury"},
	Inflation: {"inflation", "cpi", "ppi", "price", "prices", "cost", "pce"},
	War: {
		"war", "conflict", "attack", "missile", "invasion", "israel",
		"gaza", "ukraine", "russia", "iran", "taiwan",
	},
	China:   {"china", "xi", "beijing", "tariff", "trade", "export", "import"},
	Economy: {"economy", "growth", "gdp", "jobs", "employment", "nfp", "unemployment", "recession"},
	Bank:    {"bank", "credit", "loan", "regulator", "capital", "stress"},
	Energy:  {"oil", "gas", "energy", "opec", "brent", "wti"},
	Crypto:  {"bitcoin", "btc", "crypto", "ethereum", "eth", "stablecoin"},
}

var labels = map[Topic]string{
	Fed:       "kebijakan Federal Reserve",
	Inflation: "inflasi",
	War:       "ketegangan geopolitik",
	China:     "hubungan dagang China",
	Economy:   "data ekonomi makro",
	Bank:      "stabilitas perbankan",
	Energy:    "pasar energi",
	Crypto:    "sektor kripto",
}

// All returns every topic in declaration order.
func All() []Topic {
	return append([]Topic(nil), all...)
}

// Keywords returns a copy of the substrings that trigger t.
func Keywords(t Topic) []string {
	return append([]string(nil), keywords[t]...)
}

// Label is the human-readable (Indonesian) name of t; unknown topics render
// as their key.
func (t Topic) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return string(t)
}

// Set is an unordered collection of topics.
type Set map[Topic]struct{}

func NewSet(topics ...Topic) Set {
	s := make(Set, len(topics))
	for _, t := range topics {
		s[t] = struct{}{}
	}
	return s
}

func (s Set) Has(t Topic) bool {
	_, ok := s[t]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Sorted returns the topics ordered by key.
func (s Set) Sorted() []Topic {
	out := make([]Topic, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Labels returns the labels of Sorted().
func (s Set) Labels() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = t.Label()
	}
	return out
}

// Equal reports whether both sets contain the same topics.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Classify assigns every topic with at least one keyword present in text.
// The empty set means no catalyst was detected.
func Classify(text string) Set {
	lowered := strings.ToLower(text)
	hits := make(Set)
	for t, words := range keywords {
		for _, w := range words {
			if strings.Contains(lowered, w) {
				hits[t] = struct{}{}
				break
			}
		}
	}
	return hits
}
