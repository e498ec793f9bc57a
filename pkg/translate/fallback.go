package translate

import (
	"context"
	"errors"
	"strings"

	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// FallbackTranslator tries each backend in order until one succeeds
type FallbackTranslator struct {
	translators []interfaces.Translator
	logger      *logger.Logger
}

// NewFallbackTranslator chains backends; nil entries are skipped
func NewFallbackTranslator(log *logger.Logger, translators ...interfaces.Translator) *FallbackTranslator {
	var chain []interfaces.Translator
	for _, t := range translators {
		if t != nil {
			chain = append(chain, t)
		}
	}
	return &FallbackTranslator{translators: chain, logger: log}
}

// Name lists the chain
func (f *FallbackTranslator) Name() string {
	names := make([]string, len(f.translators))
	for i, t := range f.translators {
		names[i] = t.Name()
	}
	return "fallback[" + strings.Join(names, ", ") + "]"
}

// Translate returns the first successful translation. Cancellation stops the chain.
func (f *FallbackTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if len(f.translators) == 0 {
		return "", utils.NewTranslationError("no translation backend configured", nil)
	}

	var errs []error
	for i, t := range f.translators {
		out, err := t.Translate(ctx, text, sourceLang, targetLang)
		if err == nil {
			if i > 0 {
				f.logger.Info("Translated with fallback backend %s", t.Name())
			}
			return out, nil
		}
		if ctx.Err() != nil {
			return "", utils.WrapError(ctx.Err(), utils.ErrorTypeTimeout, "translation cancelled")
		}

		errs = append(errs, err)
		if i < len(f.translators)-1 {
			f.logger.Warn("Translator %s failed, falling back: %v", t.Name(), err)
		}
	}

	return "", utils.NewTranslationError("all translation backends failed", errors.Join(errs...))
}
