// Package analysis turns a feed entry into a market analysis: an AI-produced
// result when one is available and valid, otherwise a deterministic local
// fallback.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/deusflow/newswatch/internal/text"
	"github.com/deusflow/newswatch/internal/topic"
)

// ErrInvalidResult is returned when an AI payload is unparsable or has an
// empty field.
var ErrInvalidResult = errors.New("invalid analysis result")

// Result is the four-field analysis handed to the sink. It is only usable
// when every field is non-empty after whitespace normalization.
type Result struct {
	Summary string `json:"summary"`
	Crypto  string `json:"crypto"`
	Gold    string `json:"gold"`
	Outlook string `json:"outlook"`
}

// Normalize collapses whitespace in every field.
func (r Result) Normalize() Result {
	return Result{
		Summary: text.CollapseWhitespace(r.Summary),
		Crypto:  text.CollapseWhitespace(r.Crypto),
		Gold:    text.CollapseWhitespace(r.Gold),
		Outlook: text.CollapseWhitespace(r.Outlook),
	}
}

// Valid reports whether all four normalized fields are non-empty.
func (r Result) Valid() bool {
	n := r.Normalize()
	return n.Summary != "" && n.Crypto != "" && n.Gold != "" && n.Outlook != ""
}

// Source tells which path produced an Outcome.
type Source int

const (
	SourceFallback Source = iota
	SourceAI
)

func (s Source) String() string {
	if s == SourceAI {
		return "ai"
	}
	return "fallback"
}

// Outcome is the resolved analysis of one entry.
type Outcome struct {
	Result
	Source Source
	Topics topic.Set
}

// ParseResult decodes an AI JSON payload into a normalized Result. Any
// missing or empty field rejects the whole payload.
func ParseResult(payload string) (Result, error) {
	payload = stripCodeFence(payload)
	if payload == "" {
		return Result{}, fmt.Errorf("%w: empty payload", ErrInvalidResult)
	}

	var r Result
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	r = r.Normalize()
	if !r.Valid() {
		return Result{}, fmt.Errorf("%w: missing fields (summary=%t crypto=%t gold=%t outlook=%t)",
			ErrInvalidResult, r.Summary != "", r.Crypto != "", r.Gold != "", r.Outlook != "")
	}
	return r, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
