package tools

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkupToHTML renders lightweight text markup to HTML. Category and product
// descriptions are stored as plain markup and only rendered when the app has
// the markup flag enabled; otherwise the raw text is pushed as-is.
func MarkupToHTML(text string) string {
	if text == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	out := markdown.ToHTML([]byte(text), p, r)
	return strings.TrimSpace(string(out))
}
