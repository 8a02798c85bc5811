package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLToText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"tags", "<b>hello</b> <i>world</i>", "hello world"},
		{"line breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"anchor keeps text", `<a href="https://x.test/a">https://x.test/a</a>`, "https://x.test/a"},
		{"entities", "l&#39;équipe &amp; co", "l'équipe & co"},
		{"script dropped", "a<script>alert(1)</script>b", "ab"},
		{"style dropped", "<style>p{}</style>text", "text"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\ntwo"},
		{"unclosed tag", "a <b>bold", "a bold"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTMLToText(tc.in))
		})
	}
}

func TestNewHTMLMessage(t *testing.T) {
	msg := NewHTMLMessage("Webconf", "from@beta.gouv.fr", "to@beta.gouv.fr", "Subject", "Hi<br>there")

	assert.Equal(t, "Hi\nthere", msg.Text)
	assert.Equal(t, "0", msg.Headers["X-Mailjet-TrackOpen"])
	assert.Equal(t, "0", msg.Headers["X-Mailjet-TrackClick"])
}
