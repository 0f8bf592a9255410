// Package format turns model output into markup that is safe enough to
// inject into the widget: a constrained markdown subset, auto-linked URLs,
// and a best-effort strip of a small denylist of dangerous tags. It is a
// blocklist, not a full sanitizer; anything outside the enumerated tag names
// passes through unchanged.
package format

import (
	"regexp"
	"strings"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.*?)\*`)
	linkRe   = regexp.MustCompile(`(https?://|mailto:)[^\s<]+`)

	dangerousTags = []string{"script", "iframe", "object", "embed", "form", "input", "button"}

	pairedTagRes []*regexp.Regexp
	openTagRes   []*regexp.Regexp
)

func init() {
	for _, tag := range dangerousTags {
		// Paired blocks first (dot matches newline), then stray openers.
		pairedTagRes = append(pairedTagRes, regexp.MustCompile(`(?is)<`+tag+`[^>]*>.*?</`+tag+`>`))
		openTagRes = append(openTagRes, regexp.MustCompile(`(?i)<`+tag+`[^>]*>`))
	}
}

// Text applies the display transform in a fixed order: markdown bold then
// italic, newlines to <br>, auto-linking, dangerous-tag strip, then entity
// un-escaping. The order matters: bold before italic so ** is not consumed
// twice, and auto-linking before the tag strip so anchors built here are
// never caught by it.
func Text(text string) string {
	if text == "" {
		return ""
	}

	clean := boldRe.ReplaceAllString(text, "<b>$1</b>")
	clean = italicRe.ReplaceAllString(clean, "<i>$1</i>")

	clean = strings.ReplaceAll(clean, "\n", "<br>")

	clean = linkRe.ReplaceAllStringFunc(clean, func(url string) string {
		return `<a href="` + url + `" target="_blank" rel="noopener">` + url + `</a>`
	})

	for i := range dangerousTags {
		clean = pairedTagRes[i].ReplaceAllString(clean, "")
		clean = openTagRes[i].ReplaceAllString(clean, "")
	}

	clean = strings.ReplaceAll(clean, "&amp;", "&")
	clean = strings.ReplaceAll(clean, "&lt;", "<")
	clean = strings.ReplaceAll(clean, "&gt;", ">")

	return clean
}
