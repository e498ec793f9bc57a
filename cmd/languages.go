package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nodewee/plaque-translator/pkg/language"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported plaque and target languages",
	Long: `Lists the supported languages. --input-lang and --target-lang accept any
spelling in the table: English name, native name, or one of the codes.
Regional tags such as fr-CA resolve to their base language.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listLanguages(cmd.OutOrStdout())
	},
}

func listLanguages(w io.Writer) {
	fmt.Fprintf(w, "%-6s %-20s %-12s %-10s %s\n", "CODE", "NAME", "NATIVE", "TESSERACT", "NLLB")
	for _, l := range language.Supported() {
		fmt.Fprintf(w, "%-6s %-20s %-12s %-10s %s\n", l.TranslationCode, l.Name(), l.SelfName(), l.OCRCode, l.NLLBCode)
	}
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
