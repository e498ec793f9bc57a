package transcript

import (
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	blankRun   = regexp.MustCompile(`\n\s*\n\s*\n+`)
	edgeSpaces = regexp.MustCompile(` *\n *`)
)

// blockElements start a new paragraph in the transcript
var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Article:    true,
	atom.Section:    true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Main:       true,
	atom.Figure:     true,
	atom.Figcaption: true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Table:      true,
	atom.Address:    true,
}

// lineElements end a line without starting a paragraph
var lineElements = map[atom.Atom]bool{
	atom.Li: true,
	atom.Tr: true,
	atom.Dt: true,
	atom.Dd: true,
}

// HTMLExtractor handles plaque transcripts saved as HTML, such as a
// collection page. Block elements become blank-line separated paragraphs
// and <br> becomes a line break, which is the layout the parser reads.
type HTMLExtractor struct {
	name string
}

// NewHTMLExtractor creates a new HTML extractor
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{
		name: "html",
	}
}

// Extract extracts text from HTML files
func (e *HTMLExtractor) Extract(ctx context.Context, inputFile string) (*interfaces.ExtractionResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	start := time.Now()
	content, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, utils.NewIOError("failed to read file", err)
	}

	text, err := ExtractText(string(content))
	if err != nil {
		return nil, err
	}

	return newResult(inputFile, e.name, text, start), nil
}

// SupportsFile checks if this extractor supports the given file type
func (e *HTMLExtractor) SupportsFile(fileInfo *types.FileInfo) bool {
	return utils.IsHTMLFile(fileInfo.Extension, fileInfo.MimeType)
}

// Name returns the name of the extractor
func (e *HTMLExtractor) Name() string {
	return e.name
}

// ExtractText flattens an HTML document into plaque lines
func ExtractText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", utils.NewValidationError("failed to parse HTML", err)
	}

	var b strings.Builder
	walk(doc, &b)
	return cleanup(b.String()), nil
}

func walk(node *html.Node, b *strings.Builder) {
	if node.Type == html.ElementNode {
		switch {
		case node.DataAtom == atom.Script || node.DataAtom == atom.Style || node.DataAtom == atom.Head:
			return
		case blockElements[node.DataAtom]:
			b.WriteString("\n\n")
		case node.DataAtom == atom.Br:
			b.WriteString("\n")
			return
		}
	}

	if node.Type == html.TextNode {
		// Source formatting whitespace is not a line break
		text := strings.Join(strings.Fields(node.Data), " ")
		if text != "" {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") && startsWithSpace(node.Data) {
				b.WriteString(" ")
			}
			b.WriteString(text)
			if endsWithSpace(node.Data) {
				b.WriteString(" ")
			}
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		walk(child, b)
	}

	if node.Type == html.ElementNode {
		switch {
		case blockElements[node.DataAtom]:
			b.WriteString("\n\n")
		case lineElements[node.DataAtom]:
			b.WriteString("\n")
		}
	}
}

func startsWithSpace(s string) bool {
	return s != "" && strings.ContainsAny(s[:1], " \t\n\r")
}

func endsWithSpace(s string) bool {
	return s != "" && strings.ContainsAny(s[len(s)-1:], " \t\n\r")
}

func cleanup(text string) string {
	text = spaceRun.ReplaceAllString(text, " ")
	text = edgeSpaces.ReplaceAllString(text, "\n")
	text = blankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
