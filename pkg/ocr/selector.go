package ocr

import (
	"fmt"
	"sort"

	"github.com/nodewee/plaque-translator/pkg/config"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/ocr/engines"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// autoPreference is the order auto selection tries engines in
var autoPreference = []types.OCRStrategy{
	types.OCRStrategyGosseract,
	types.OCRStrategyTesseract,
}

// DefaultOCRSelector implements OCR tool selection
type DefaultOCRSelector struct {
	config  *config.Config
	logger  *logger.Logger
	engines map[types.OCRStrategy]interfaces.OCREngine
}

// NewOCRSelector creates a new OCR selector with the built-in engines registered
func NewOCRSelector(cfg *config.Config, log *logger.Logger) *DefaultOCRSelector {
	selector := &DefaultOCRSelector{
		config:  cfg,
		logger:  log,
		engines: make(map[types.OCRStrategy]interfaces.OCREngine),
	}

	selector.engines[types.OCRStrategyTesseract] = engines.NewTesseractCLIEngine(cfg, log)
	selector.engines[types.OCRStrategyGosseract] = engines.NewGosseractEngine(log)

	return selector
}

// RegisterEngine replaces the engine behind a strategy
func (s *DefaultOCRSelector) RegisterEngine(strategy types.OCRStrategy, engine interfaces.OCREngine) {
	s.engines[strategy] = engine
}

// SelectOCRStrategy resolves a strategy to a runnable engine. Auto picks the
// in-process engine when compiled in and falls back to the tesseract binary.
func (s *DefaultOCRSelector) SelectOCRStrategy(strategy types.OCRStrategy) (interfaces.OCREngine, error) {
	if strategy == "" || strategy == types.OCRStrategyAuto {
		for _, candidate := range autoPreference {
			if tool, ok := s.engines[candidate]; ok && tool.IsAvailable() {
				s.logger.Info("Auto-selected OCR tool: %s", tool.GetDescription())
				return tool, nil
			}
		}
		return nil, utils.NewNotFoundError("no OCR engines are available on this system; install tesseract or set tesseract_path", nil)
	}

	tool, exists := s.engines[strategy]
	if !exists {
		return nil, utils.NewValidationError(fmt.Sprintf("unknown OCR tool: %s", strategy), nil)
	}

	if !tool.IsAvailable() {
		return nil, utils.NewNotFoundError(fmt.Sprintf("OCR tool '%s' is not available on this system", tool.Name()), nil)
	}

	s.logger.Info("Selected OCR tool: %s", tool.GetDescription())
	return tool, nil
}

// GetAvailableStrategies returns all available OCR strategies
func (s *DefaultOCRSelector) GetAvailableStrategies() []types.OCRStrategy {
	var available []types.OCRStrategy

	for strategy, tool := range s.engines {
		if tool.IsAvailable() {
			available = append(available, strategy)
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i] < available[j] })

	return available
}
