package render

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// HTMLRenderer writes a standalone HTML page for the plaque. The tree is
// built from nodes so every field value is escaped by the serializer.
type HTMLRenderer struct {
	opts Options
}

// NewHTMLRenderer creates an HTML renderer
func NewHTMLRenderer(opts Options) *HTMLRenderer {
	return &HTMLRenderer{opts: opts}
}

// Format returns the output format
func (r *HTMLRenderer) Format() types.OutputFormat {
	return types.OutputFormatHTML
}

// Render writes the HTML document to w
func (r *HTMLRenderer) Render(w io.Writer, fields types.TranslatedPlaqueFields) error {
	if err := html.Render(w, r.document(fields)); err != nil {
		return utils.NewRenderError("failed to write HTML", err)
	}
	return nil
}

func (r *HTMLRenderer) document(fields types.TranslatedPlaqueFields) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, attr("lang", r.opts.Target.TranslationCode))
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(element(atom.Meta, attr("name", "generator"), attr("content", constants.AppName)))
	head.AppendChild(withText(element(atom.Title), fields.Title))
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)

	article := element(atom.Article, attr("class", "plaque"))
	body.AppendChild(article)

	for _, f := range fieldsOf(fields) {
		if f.value == "" {
			continue
		}
		switch f.class {
		case "title":
			article.AppendChild(withText(element(atom.H1, attr("class", f.class)), f.value))
		case "description":
			section := element(atom.Section, attr("class", f.class))
			for _, para := range paragraphs(f.value) {
				p := element(atom.P)
				for i, line := range para {
					if i > 0 {
						p.AppendChild(element(atom.Br))
					}
					p.AppendChild(text(line))
				}
				section.AppendChild(p)
			}
			article.AppendChild(section)
		default:
			article.AppendChild(withText(element(atom.P, attr("class", f.class)), f.value))
		}
	}

	footer := element(atom.Footer)
	footer.AppendChild(withText(element(atom.Small), r.opts.caption()))
	body.AppendChild(footer)

	return doc
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}
