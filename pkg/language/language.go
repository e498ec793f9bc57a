// Package language maps user-facing language names and codes onto the codes
// the OCR engine and the translation backends expect.
package language

import (
	"fmt"
	"sort"
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// Language is one supported language and its per-backend codes
type Language struct {
	// Tag is the BCP 47 tag, e.g. "fr" or "zh-Hans"
	Tag xlang.Tag
	// OCRCode is the tesseract traineddata name, e.g. "fra"
	OCRCode string
	// TranslationCode is the ISO 639-1 code MT services take, e.g. "fr"
	TranslationCode string
	// NLLBCode is the FLORES-200 code used by NLLB models, e.g. "fra_Latn"
	NLLBCode string
}

// Name returns the English name of the language
func (l Language) Name() string {
	return display.English.Tags().Name(l.Tag)
}

// SelfName returns the name of the language in itself
func (l Language) SelfName() string {
	return display.Self.Name(l.Tag)
}

// Latin reports whether the language is written in Latin script
func (l Language) Latin() bool {
	return strings.HasSuffix(l.NLLBCode, "_Latn")
}

func (l Language) String() string {
	return l.TranslationCode
}

var supported = []Language{
	{xlang.English, "eng", "en", "eng_Latn"},
	{xlang.French, "fra", "fr", "fra_Latn"},
	{xlang.German, "deu", "de", "deu_Latn"},
	{xlang.Spanish, "spa", "es", "spa_Latn"},
	{xlang.Italian, "ita", "it", "ita_Latn"},
	{xlang.Portuguese, "por", "pt", "por_Latn"},
	{xlang.Dutch, "nld", "nl", "nld_Latn"},
	{xlang.SimplifiedChinese, "chi_sim", "zh", "zho_Hans"},
	{xlang.Japanese, "jpn", "ja", "jpn_Jpan"},
	{xlang.Russian, "rus", "ru", "rus_Cyrl"},
}

// index maps every accepted spelling to its entry
var index = buildIndex()

func buildIndex() map[string]Language {
	idx := make(map[string]Language)
	for _, l := range supported {
		base, _ := l.Tag.Base()
		for _, alias := range []string{
			l.OCRCode,
			l.TranslationCode,
			l.NLLBCode,
			base.ISO3(),
			l.Tag.String(),
			l.Name(),
			l.SelfName(),
		} {
			idx[strings.ToLower(alias)] = l
		}
	}
	return idx
}

// Supported returns the supported languages ordered by translation code
func Supported() []Language {
	out := append([]Language(nil), supported...)
	sort.Slice(out, func(i, j int) bool { return out[i].TranslationCode < out[j].TranslationCode })
	return out
}

// Normalize resolves a language name or code ("French", "fr", "fra",
// "fra_Latn", "fr-CA") to a supported Language.
func Normalize(input string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return Language{}, unsupported(input)
	}

	if l, ok := index[key]; ok {
		return l, nil
	}

	// Fall back to BCP 47 parsing so regional variants map to their base language
	tag, err := xlang.Parse(key)
	if err != nil {
		return Language{}, unsupported(input)
	}
	base, conf := tag.Base()
	if conf == xlang.No {
		return Language{}, unsupported(input)
	}
	if l, ok := index[base.String()]; ok {
		return l, nil
	}

	return Language{}, unsupported(input)
}

// MustNormalize is Normalize for compile-time constants; it panics on unknown input
func MustNormalize(input string) Language {
	l, err := Normalize(input)
	if err != nil {
		panic(err)
	}
	return l
}

func unsupported(input string) error {
	return utils.NewUnsupportedError(fmt.Sprintf("%s: %s", constants.ErrUnsupportedLanguage, input), nil).
		WithContext("language", input)
}
