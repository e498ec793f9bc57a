package render

import (
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

const (
	pdfFamily     = "plaque"
	pdfLineHeight = 6.0
	pdfMargin     = 20.0
)

// PDFRenderer lays a plaque out on a single A4 page. Without a font file
// the core Helvetica font is used and text is mapped to cp1252.
type PDFRenderer struct {
	opts Options
}

// NewPDFRenderer creates a PDF renderer
func NewPDFRenderer(opts Options) *PDFRenderer {
	return &PDFRenderer{opts: opts}
}

// Format returns the output format
func (r *PDFRenderer) Format() types.OutputFormat {
	return types.OutputFormatPDF
}

// Render writes the PDF document to w
func (r *PDFRenderer) Render(w io.Writer, fields types.TranslatedPlaqueFields) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCreationDate(r.opts.created())
	pdf.SetCreator(constants.AppName, false)
	pdf.SetTitle(fields.Title, true)
	pdf.SetAuthor(fields.Author, true)
	pdf.SetSubject(r.opts.caption(), true)

	family, tr := "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	if r.opts.FontPath != "" {
		pdf.AddUTF8Font(pdfFamily, "", r.opts.FontPath)
		pdf.AddUTF8Font(pdfFamily, "B", r.opts.FontPath)
		pdf.AddUTF8Font(pdfFamily, "I", r.opts.FontPath)
		family, tr = pdfFamily, func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return utils.NewRenderError("failed to load PDF font", err).WithContext("font", r.opts.FontPath)
	}

	pdf.AddPage()

	pdf.SetFont(family, "B", 18)
	pdf.MultiCell(0, 9, tr(fields.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont(family, "B", 12)
	pdf.MultiCell(0, pdfLineHeight, tr(fields.Author), "", "L", false)
	pdf.SetFont(family, "", 11)
	for _, line := range []string{fields.LifeInfo, fields.Year, fields.Medium} {
		if line != "" {
			pdf.MultiCell(0, pdfLineHeight, tr(line), "", "L", false)
		}
	}

	if fields.Description != "" {
		pdf.Ln(4)
		for _, para := range paragraphs(fields.Description) {
			pdf.MultiCell(0, pdfLineHeight, tr(strings.Join(para, "\n")), "", "J", false)
			pdf.Ln(2)
		}
	}

	if fields.Source != "" {
		pdf.Ln(2)
		pdf.SetFont(family, "I", 10)
		pdf.MultiCell(0, pdfLineHeight, tr(fields.Source), "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont(family, "", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.MultiCell(0, 4, tr(r.opts.caption()), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return utils.NewRenderError("failed to write PDF", err)
	}
	return nil
}
