// Package translate turns parsed plaque fields into the target language.
package translate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/language"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// FieldTranslator translates the natural-language fields of a plaque. It
// owns no global state; build one per run and pass it where needed.
type FieldTranslator struct {
	translator     interfaces.Translator
	maxConcurrency int
	logger         *logger.Logger
}

// NewFieldTranslator wraps a backend. maxConcurrency bounds in-flight requests.
func NewFieldTranslator(translator interfaces.Translator, maxConcurrency int, log *logger.Logger) *FieldTranslator {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &FieldTranslator{
		translator:     translator,
		maxConcurrency: maxConcurrency,
		logger:         log,
	}
}

// Translate produces the translated copy of fields. Author and Year are
// carried over verbatim; empty fields stay empty without a backend call.
// The input record is never modified.
func (ft *FieldTranslator) Translate(ctx context.Context, fields types.PlaqueFields, source, target language.Language) (types.TranslatedPlaqueFields, error) {
	out := types.TranslatedPlaqueFields{
		Author: fields.Author,
		Year:   fields.Year,
	}

	jobs := []struct {
		name string
		src  string
		dst  *string
	}{
		{"life_info", fields.LifeInfo, &out.LifeInfo},
		{"title", fields.Title, &out.Title},
		{"medium", fields.Medium, &out.Medium},
		{"source", fields.Source, &out.Source},
		{"description", fields.Description, &out.Description},
	}

	if source.TranslationCode == target.TranslationCode {
		ft.logger.Info("Source and target language are both %s, copying fields", source.Name())
		for _, j := range jobs {
			*j.dst = j.src
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ft.maxConcurrency)

	for _, j := range jobs {
		if j.src == "" {
			continue
		}
		j := j
		g.Go(func() error {
			ft.logger.Progress("🌐", "Translating %s", j.name)
			translated, err := ft.translator.Translate(gctx, j.src, source.TranslationCode, target.TranslationCode)
			if err != nil {
				return utils.WrapError(err, "", fmt.Sprintf("failed to translate %s", j.name)).
					WithContext("field", j.name)
			}
			*j.dst = translated
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.TranslatedPlaqueFields{}, err
	}

	ft.logger.Progress("✅", "Translated plaque from %s to %s with %s", source.Name(), target.Name(), ft.translator.Name())
	return out, nil
}
