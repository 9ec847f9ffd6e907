package report

import (
	"fmt"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"waitstat/adapters/stats/engine"
)

// HTML renders the Markdown report as a complete HTML page
func HTML(r *engine.ComparisonReport) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(Markdown(r)))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: fmt.Sprintf("%s vs %s", r.GroupA.Label, r.GroupB.Label),
	})
	return markdown.Render(doc, renderer)
}
