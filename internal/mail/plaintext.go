package mail

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLToText strips tags from an HTML fragment to build the plain-text part of an email.
//
// Limits: it only knows that <br>, <p> and <div> mean a line break and that <script> and
// <style> content is not text. Link targets are dropped (only the anchor text stays),
// whitespace is kept as written, and broken markup is tokenized best-effort, so the
// output of malformed input is not guaranteed to be readable.
func HTMLToText(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br":
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div":
				b.WriteByte('\n')
			}
		}
	}
}
