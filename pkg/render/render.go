// Package render writes translated plaques as terminal text, PDF or HTML.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/language"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// Options carries run metadata shared by all renderers
type Options struct {
	Source language.Language
	Target language.Language
	// FontPath is a TTF used for PDF output; required for scripts outside Latin-1
	FontPath string
	// Created stamps generated documents; zero means now
	Created time.Time
}

func (o Options) created() time.Time {
	if o.Created.IsZero() {
		return time.Now()
	}
	return o.Created
}

func (o Options) caption() string {
	return fmt.Sprintf("Translated from %s to %s", o.Source.Name(), o.Target.Name())
}

// field is one labelled line of a plaque in display order
type field struct {
	label string
	class string
	value string
}

func fieldsOf(f types.TranslatedPlaqueFields) []field {
	return []field{
		{"Author", "author", f.Author},
		{"Life", "life-info", f.LifeInfo},
		{"Title", "title", f.Title},
		{"Year", "year", f.Year},
		{"Medium", "medium", f.Medium},
		{"Source", "source", f.Source},
		{"Description", "description", f.Description},
	}
}

// paragraphs splits description text on blank lines
func paragraphs(text string) [][]string {
	var out [][]string
	var cur []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// New returns the renderer for format
func New(format types.OutputFormat, opts Options) (interfaces.Renderer, error) {
	switch format {
	case types.OutputFormatCLI:
		return NewCLIRenderer(opts), nil
	case types.OutputFormatPDF:
		return NewPDFRenderer(opts), nil
	case types.OutputFormatHTML:
		return NewHTMLRenderer(opts), nil
	default:
		return nil, utils.NewUnsupportedError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
}
