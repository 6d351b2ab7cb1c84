package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deusflow/newswatch/internal/logger"
	"github.com/deusflow/newswatch/internal/notify"
	"github.com/deusflow/newswatch/internal/retry"
)

const (
	defaultBaseURL  = "https://api.telegram.org"
	maxMessageRunes = 4096
	maxCaptionRunes = 1024
)

var fieldEmoji = map[string]string{
	notify.LabelCrypto:  "📈",
	notify.LabelGold:    "🟡",
	notify.LabelOutlook: "🔮",
}

// Client delivers notifications to one chat or channel.
type Client struct {
	token   string
	chatID  string
	baseURL string
	http    *http.Client
	retry   retry.RetryConfig
	log     *slog.Logger
}

func NewClient(token, chatID string) *Client {
	return &Client{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		retry:   retry.RetryConfig{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true},
		log:     logger.With("telegram"),
	}
}

// WithBaseURL overrides the Bot API endpoint.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// WithRetry overrides the retry policy.
func (c *Client) WithRetry(cfg retry.RetryConfig) *Client {
	c.retry = cfg
	return c
}

// Send posts the notification as a photo with caption when a thumbnail is
// present and the text fits the caption limit, otherwise as a text message.
func (c *Client) Send(ctx context.Context, n notify.Notification) error {
	msg := FormatMessage(n)

	if n.ThumbnailURL != "" && utf8.RuneCountInString(msg) <= maxCaptionRunes {
		err := retry.WithRetry(ctx, c.retry, func() error {
			return c.call(ctx, "sendPhoto", map[string]interface{}{
				"chat_id":    c.chatID,
				"photo":      n.ThumbnailURL,
				"caption":    msg,
				"parse_mode": "HTML",
			})
		})
		if err == nil {
			c.log.Info("Photo sent to Telegram", "title", n.Title)
			return nil
		}
		c.log.Warn("Photo send failed, sending text", "title", n.Title, "error", err)
	}

	err := retry.WithRetry(ctx, c.retry, func() error {
		return c.call(ctx, "sendMessage", map[string]interface{}{
			"chat_id":                  c.chatID,
			"text":                     msg,
			"parse_mode":               "HTML",
			"disable_web_page_preview": n.ThumbnailURL == "",
		})
	})
	if err != nil {
		return fmt.Errorf("telegram send %q: %w", n.Title, err)
	}
	c.log.Info("Message sent to Telegram", "title", n.Title)
	return nil
}

// call does one Bot API request.
func (c *Client) call(ctx context.Context, method string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error make JSON: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// FormatMessage renders the notification as Telegram HTML.
func FormatMessage(n notify.Notification) string {
	var b strings.Builder

	if n.Footer != "" {
		b.WriteString(fmt.Sprintf("<b>%s • News Watch</b>\n", html.EscapeString(n.Footer)))
	}
	b.WriteString(fmt.Sprintf("<a href=\"%s\"><b>%s</b></a>\n\n", html.EscapeString(n.Link), html.EscapeString(n.Title)))
	b.WriteString(html.EscapeString(n.Summary))
	b.WriteString("\n")

	for _, f := range n.Fields {
		emoji := fieldEmoji[f.Name]
		if emoji != "" {
			emoji += " "
		}
		b.WriteString(fmt.Sprintf("\n%s<b>%s</b>\n%s\n", emoji, html.EscapeString(f.Name), html.EscapeString(f.Value)))
	}

	footer := n.Footer
	if !n.PublishedAt.IsZero() {
		stamp := n.PublishedAt.UTC().Format("2006-01-02 15:04 UTC")
		if footer != "" {
			footer += " • " + stamp
		} else {
			footer = stamp
		}
	}
	if footer != "" {
		b.WriteString(fmt.Sprintf("\n<i>%s</i>", html.EscapeString(footer)))
	}

	return clampRunes(b.String(), maxMessageRunes)
}

// clampRunes keeps s within max runes. Cutting inside a tag would break the
// HTML parse mode, so the cut backs off to the last newline.
func clampRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	cut := string([]rune(s)[:max-1])
	if i := strings.LastIndex(cut, "\n"); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
