package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// CLIRenderer prints the translated plaque in the same banner style as the
// extraction printout
type CLIRenderer struct {
	opts Options
}

// NewCLIRenderer creates a terminal renderer
func NewCLIRenderer(opts Options) *CLIRenderer {
	return &CLIRenderer{opts: opts}
}

// Format returns the output format
func (r *CLIRenderer) Format() types.OutputFormat {
	return types.OutputFormatCLI
}

// Render writes one "Label: value" line per field; the description follows
// on its own lines
func (r *CLIRenderer) Render(w io.Writer, fields types.TranslatedPlaqueFields) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "----- Translated Text (%s) -----\n", r.opts.Target.Name())
	for _, f := range fieldsOf(fields) {
		if f.class == "description" {
			fmt.Fprintf(bw, "%s:\n", f.label)
			if f.value != "" {
				fmt.Fprintln(bw, strings.TrimRight(f.value, "\n"))
			}
			continue
		}
		fmt.Fprintf(bw, "%-7s %s\n", f.label+":", f.value)
	}

	if err := bw.Flush(); err != nil {
		return utils.NewRenderError("failed to write CLI output", err)
	}
	return nil
}
