package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewee/plaque-translator/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage persisted settings",
	Long: `Manage settings stored in ~/.plaque-translator/config.json
(the directory can be moved with PLAQUE_CONFIG_DIR).

Keys:
  tesseract_path           tesseract binary (auto-detected on first run)
  translator_url           LibreTranslate-compatible service
  fallback_translator_url  service tried when the primary one fails
  translator_api_key       API key sent to the services
  pdf_font_path            TTF font for PDF output in non-Latin scripts

Other settings (languages, PSM, formats) are per run: flags or PLAQUE_* variables.

Examples:
  plaque-translator config list
  plaque-translator config get translator_url
  plaque-translator config set translator_url https://libretranslate.example.org
  plaque-translator config set pdf_font_path /usr/share/fonts/noto/NotoSansCJK-Regular.ttf`,
}

// listConfig lists all persisted settings
func listConfig(w io.Writer) error {
	path, err := config.GetConfigFilePath()
	if err != nil {
		return err
	}
	if _, err := config.LoadConfig(); err != nil {
		return err
	}

	fmt.Fprintln(w, "🛠️  Configuration")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "📁 Config file: %s\n\n", path)

	for _, key := range config.ListConfigKeys() {
		value, err := config.GetConfigValue(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-24s = %s\n", key, displayValue(key, value))
	}
	return nil
}

// displayValue masks secrets and marks empty values
func displayValue(key, value string) string {
	switch {
	case value == "":
		return "(not set)"
	case strings.HasSuffix(key, "_api_key"):
		if len(value) <= 4 {
			return "****"
		}
		return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
	default:
		return value
	}
}

// configListCmd represents the 'config list' command
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all persisted settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listConfig(cmd.OutOrStdout())
	},
}

// configGetCmd represents the 'config get' command
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.GetConfigValue(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📝 %s = %s\n", args[0], displayValue(args[0], value))
		return nil
	},
}

// configSetCmd represents the 'config set' command
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetConfigValue(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Successfully set %s = %s\n", args[0], displayValue(args[0], args[1]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
