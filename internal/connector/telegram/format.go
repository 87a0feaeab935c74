package telegram

import (
	"regexp"
	"strings"
)

// Order matters: bold before italic so ** is not eaten as two italics.
var (
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*(.+?)\*`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// MarkdownToHTML converts the markdown subset chat models actually emit
// (bold, italic, inline code, links) to Telegram's HTML flavor. Replies
// are short conversational text, so there is no fenced-block handling.
func MarkdownToHTML(text string) string {
	out := escapeHTML(text)
	out = reInlineCode.ReplaceAllString(out, "<code>$1</code>")
	out = reBold.ReplaceAllString(out, "<b>$1</b>")
	out = reItalic.ReplaceAllString(out, "<i>$1</i>")
	out = reLink.ReplaceAllString(out, `<a href="$2">$1</a>`)
	return out
}

// StripMarkdown drops formatting for the plain-text fallback path.
func StripMarkdown(text string) string {
	out := reInlineCode.ReplaceAllString(text, "$1")
	out = reBold.ReplaceAllString(out, "$1")
	out = reItalic.ReplaceAllString(out, "$1")
	out = reLink.ReplaceAllString(out, "$1 ($2)")
	return out
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
