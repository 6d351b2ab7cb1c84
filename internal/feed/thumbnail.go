package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// thumbnail picks the entry image: media:thumbnail, media:content, the
// parsed item image, an image enclosure, then the first <img> in the HTML.
func thumbnail(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"thumbnail", "content"} {
			for _, ext := range media[key] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	if u := firstImage(item.Content); u != "" {
		return u
	}
	return firstImage(item.Description)
}

// firstImage returns the src of the first absolute-URL <img> in an HTML
// fragment.
func firstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var src string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr("src")
		if ok && (strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")) {
			src = v
			return false
		}
		return true
	})
	return src
}
