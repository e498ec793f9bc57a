package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/plaque-translator/pkg/utils"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		wantCode string
		wantOCR  string
		wantNLLB string
	}{
		{"en", "en", "eng", "eng_Latn"},
		{"English", "en", "eng", "eng_Latn"},
		{"  FRENCH ", "fr", "fra", "fra_Latn"},
		{"fra", "fr", "fra", "fra_Latn"},
		{"fra_Latn", "fr", "fra", "fra_Latn"},
		{"fr-CA", "fr", "fra", "fra_Latn"},
		{"deutsch", "de", "deu", "deu_Latn"},
		{"es", "es", "spa", "spa_Latn"},
		{"chi_sim", "zh", "chi_sim", "zho_Hans"},
		{"zh", "zh", "chi_sim", "zho_Hans"},
		{"ja", "ja", "jpn", "jpn_Jpan"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, l.TranslationCode)
			assert.Equal(t, tt.wantOCR, l.OCRCode)
			assert.Equal(t, tt.wantNLLB, l.NLLBCode)
		})
	}
}

func TestNormalizeUnsupported(t *testing.T) {
	for _, input := range []string{"", "klingon", "sw", "x-not-a-tag"} {
		t.Run(input, func(t *testing.T) {
			_, err := Normalize(input)
			require.Error(t, err)
			assert.Equal(t, utils.ErrorTypeUnsupported, utils.GetErrorType(err))
			assert.Contains(t, err.Error(), "unsupported language: "+input)
		})
	}
}

func TestNames(t *testing.T) {
	fr := MustNormalize("fr")
	assert.Equal(t, "French", fr.Name())
	assert.Equal(t, "français", fr.SelfName())
	assert.Equal(t, "fr", fr.String())
	assert.True(t, fr.Latin())
	assert.False(t, MustNormalize("ja").Latin())
}

func TestSupportedIsSorted(t *testing.T) {
	langs := Supported()
	require.NotEmpty(t, langs)
	for i := 1; i < len(langs); i++ {
		assert.Less(t, langs[i-1].TranslationCode, langs[i].TranslationCode)
	}
}

func TestMustNormalizePanics(t *testing.T) {
	assert.Panics(t, func() { MustNormalize("klingon") })
}
