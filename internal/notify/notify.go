// Package notify defines the message handed to the delivery sink.
package notify

import (
	"context"
	"time"
)

const (
	LabelCrypto  = "Dampak Crypto"
	LabelGold    = "Dampak Emas"
	LabelOutlook = "Outlook"
)

// Field is one labeled section of a notification.
type Field struct {
	Name  string
	Value string
}

// Notification is built fresh per accepted entry and owned by the send step.
type Notification struct {
	Title        string
	Link         string
	PublishedAt  time.Time
	Summary      string
	Fields       []Field
	Footer       string
	ThumbnailURL string
}

// Sink delivers notifications. Retries, if any, are the sink's concern.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}
