// Package parser recovers structured plaque fields from raw OCR text.
//
// Plaque text carries no field markers, so lines are classified purely by
// position and by whether a blank line preceded them. See Rules for the
// classification table.
package parser

import (
	"strings"

	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/types"
)

// Parser classifies plaque lines. It holds no per-parse state and is safe
// for concurrent use.
type Parser struct {
	logger *logger.Logger
}

// NewParser creates a parser that reports diagnostics through log
func NewParser(log *logger.Logger) *Parser {
	if log == nil {
		log = logger.Discard()
	}
	return &Parser{logger: log}
}

var defaultParser = NewParser(logger.NewLogger("info", false))

// Parse is shorthand for the default parser, which prints diagnostics to the console
func Parse(rawText string, debug bool) types.PlaqueFields {
	return defaultParser.Parse(rawText, debug)
}

// Parse never fails; anything it cannot place is reported through an empty
// field and ParseSuccess=false. debug only adds progress output.
func (p *Parser) Parse(rawText string, debug bool) types.PlaqueFields {
	fields := types.PlaqueFields{RawText: rawText}

	if strings.TrimSpace(rawText) == "" {
		if debug {
			p.logger.ProgressAlways("⚠️", "No text provided to parse")
		}
		return fields
	}

	if debug {
		p.logger.ProgressAlways("🧩", "Parsing extracted text")
	}

	state := Initial()
	for i, raw := range strings.Split(rawText, "\n") {
		line := strings.TrimSpace(raw)

		var step Step
		step, state = state.Next(line)

		switch step.Action {
		case Assign:
			*slot(&fields, step.Field) = line
		case Append:
			*slot(&fields, step.Field) += "\n" + line
		}

		if debug {
			switch step.Action {
			case Assign, Append:
				p.logger.Debug("line %d: %s %s %q", i+1, step.Action, step.Field, line)
			case Drop:
				p.logger.Debug("line %d: dropped %q", i+1, line)
			}
		}
	}

	fields.ParseSuccess = fields.Complete()

	if debug {
		if fields.ParseSuccess {
			p.logger.ProgressAlways("✅", "Parsing complete, all fields collected")
		} else {
			p.logger.ProgressAlways("⚠️", "Parsing complete, missing: %s", strings.Join(fields.MissingFields(), ", "))
		}
	}

	return fields
}

func slot(f *types.PlaqueFields, field Field) *string {
	switch field {
	case Author:
		return &f.Author
	case LifeInfo:
		return &f.LifeInfo
	case Title:
		return &f.Title
	case Year:
		return &f.Year
	case Medium:
		return &f.Medium
	case Source:
		return &f.Source
	default:
		return &f.Description
	}
}
