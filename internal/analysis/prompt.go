package analysis

import (
	"fmt"
	"strings"

	"github.com/deusflow/newswatch/internal/topic"
)

const (
	untitled     = "(Tanpa Judul)"
	noTopicsHint = "tidak terdeteksi"
)

// SystemPrompt instructs the model to answer with the four JSON keys.
const SystemPrompt = "Anda adalah analis pasar profesional yang menulis bahasa Indonesia ringkas dan jelas.\n" +
	"Ringkas berita (maks 2 kalimat), lalu jelaskan dampak ke crypto (BTC & sentimen risiko), " +
	"emas (safe haven & USD), dan outlook pasar ke depan. Gunakan tone profesional.\n" +
	"Kembalikan hasil dalam format JSON dengan kunci: summary, crypto, gold, outlook."

// Request is the input of one AI analysis call.
type Request struct {
	Title   string
	Topics  string
	Context string
}

// NewRequest renders topics sorted by key, or the "none detected" marker.
func NewRequest(title string, topics topic.Set, context string) Request {
	if title == "" {
		title = untitled
	}
	hint := strings.Join(topics.Labels(), ", ")
	if hint == "" {
		hint = noTopicsHint
	}
	return Request{Title: title, Topics: hint, Context: context}
}

// UserPrompt is the per-entry message sent alongside SystemPrompt.
func (r Request) UserPrompt() string {
	return fmt.Sprintf("Judul: %s\n"+
		"Topik kunci: %s\n"+
		"Konten:\n%s\n"+
		"Instruksi khusus:\n"+
		"- summary: ringkasan 1-2 kalimat bahasa Indonesia.\n"+
		"- crypto: jelaskan dampak singkat ke BTC/pasar kripto.\n"+
		"- gold: jelaskan dampak singkat ke emas/safe haven.\n"+
		"- outlook: gambarkan ekspektasi pasar/regulasi/volatilitas ke depan.\n",
		r.Title, r.Topics, r.Context)
}
