package parser

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/types"
)

const fullPlaque = `Jane Doe
1900-1980

Sunset
1923

Oil on canvas

Gift of X

A painting of a sunset over water.`

func quiet() *Parser {
	return NewParser(logger.Discard())
}

func TestParseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   \n\n", "\t \r\n "} {
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			got := quiet().Parse(raw, false)
			assert.Equal(t, types.PlaqueFields{RawText: raw}, got)
		})
	}
}

func TestParseCanonicalLayoutWithoutYear(t *testing.T) {
	raw := "Jane Doe\n1900-1980\n\nSunset\n\nOil on canvas\n\nGift of X\n\nA painting of a sunset over water."

	got := quiet().Parse(raw, false)

	assert.Equal(t, types.PlaqueFields{
		Author:       "Jane Doe",
		LifeInfo:     "1900-1980",
		Title:        "Sunset",
		Year:         "",
		Medium:       "Oil on canvas",
		Source:       "Gift of X",
		Description:  "A painting of a sunset over water.",
		ParseSuccess: false,
		RawText:      raw,
	}, got)
	assert.Equal(t, []string{"year"}, got.MissingFields())
}

func TestParseFullFieldSet(t *testing.T) {
	got := quiet().Parse(fullPlaque, false)

	assert.True(t, got.ParseSuccess)
	assert.Equal(t, "Jane Doe", got.Author)
	assert.Equal(t, "1900-1980", got.LifeInfo)
	assert.Equal(t, "Sunset", got.Title)
	assert.Equal(t, "1923", got.Year)
	assert.Equal(t, "Oil on canvas", got.Medium)
	assert.Equal(t, "Gift of X", got.Source)
	assert.Equal(t, "A painting of a sunset over water.", got.Description)
	assert.Equal(t, fullPlaque, got.RawText)
}

func TestParseMultiLineDescription(t *testing.T) {
	raw := fullPlaque + "\nThe sun sets slowly.\nBirds fly home."

	got := quiet().Parse(raw, false)

	assert.True(t, got.ParseSuccess)
	assert.Equal(t, "A painting of a sunset over water.\nThe sun sets slowly.\nBirds fly home.", got.Description)
}

func TestParseTrimsLinesButKeepsInnerSpacing(t *testing.T) {
	raw := "  Jane   Doe \r\n\t1900 - 1980\r\n"

	got := quiet().Parse(raw, false)

	assert.Equal(t, "Jane   Doe", got.Author)
	assert.Equal(t, "1900 - 1980", got.LifeInfo)
	assert.Equal(t, raw, got.RawText)
}

func TestParseIsDeterministic(t *testing.T) {
	p := quiet()
	first := p.Parse(fullPlaque, false)
	second := p.Parse(fullPlaque, false)
	assert.Equal(t, first, second)

	// Debug output never changes the result
	assert.Equal(t, first, p.Parse(fullPlaque, true))
}

func TestParseDropsLinesAfterCompletion(t *testing.T) {
	complete := quiet().Parse(fullPlaque, false)
	require.True(t, complete.ParseSuccess)

	for _, tail := range []string{
		"\n\nMuseum purchase, 1999",
		"\n\nGallery 4\nSecond floor",
		"\n\n\nA\n\nB\n\nC",
	} {
		t.Run(fmt.Sprintf("%q", tail), func(t *testing.T) {
			got := quiet().Parse(fullPlaque+tail, false)
			assert.Equal(t, complete.Author, got.Author)
			assert.Equal(t, complete.Description, got.Description)
			assert.Equal(t, complete.Source, got.Source)
			assert.True(t, got.ParseSuccess)
		})
	}
}

func TestParseDroppedLineKeepsBlankFlag(t *testing.T) {
	// "Room 12" is dropped after a blank; the next line still counts as
	// following a blank line, so it is dropped too instead of appended.
	got := quiet().Parse(fullPlaque+"\n\nRoom 12\nEast wing", false)

	assert.Equal(t, "A painting of a sunset over water.", got.Description)

	step, next := NewState(Fields(), true).Next("Room 12")
	assert.Equal(t, Drop, step.Action)
	assert.True(t, next.PrevBlank())
}

func TestParseMissingLifeInfoShiftsFields(t *testing.T) {
	// Without a dates line the year is read as life info
	got := quiet().Parse("Jane Doe\n\nSunset\n1923\n\nOil on canvas", false)

	assert.Equal(t, "Jane Doe", got.Author)
	assert.Equal(t, "Sunset", got.Title)
	assert.Equal(t, "1923", got.LifeInfo)
	assert.Empty(t, got.Year)
	assert.Equal(t, "Oil on canvas", got.Medium)
	assert.False(t, got.ParseSuccess)
}

func TestParseAdjacentLinesOnly(t *testing.T) {
	raw := "A\nB\nC\nD\nE"

	got := quiet().Parse(raw, false)

	// A author, B life info, C year; D and E have no home
	assert.Equal(t, "A", got.Author)
	assert.Equal(t, "B", got.LifeInfo)
	assert.Equal(t, "C", got.Year)
	assert.Empty(t, got.Title)
	assert.Empty(t, got.Description)
}

func TestParseDebugDiagnostics(t *testing.T) {
	var progress bytes.Buffer
	p := NewParser(logger.NewLoggerWithWriters("info", false, &bytes.Buffer{}, &progress))

	p.Parse("  ", true)
	assert.Contains(t, progress.String(), "No text provided to parse")

	progress.Reset()
	p.Parse(fullPlaque, true)
	assert.Contains(t, progress.String(), "Parsing complete")

	progress.Reset()
	p.Parse(fullPlaque, false)
	assert.Empty(t, progress.String())
}

func TestParseConcurrentUse(t *testing.T) {
	p := quiet()
	want := p.Parse(fullPlaque, false)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, p.Parse(fullPlaque, false))
		}()
	}
	wg.Wait()
}

func TestPackageParse(t *testing.T) {
	assert.True(t, Parse(fullPlaque, false).ParseSuccess)
}

// cascade is the rule list written as plain conditionals, used as an
// oracle for the table.
func cascade(s State, line string) (Step, State) {
	if line == "" {
		return Step{Action: Blank}, NewState(filledOf(s), true)
	}
	empty := func(f Field) bool { return !s.Has(f) }
	prev := s.PrevBlank()
	assign := func(f Field) (Step, State) {
		return Step{Action: Assign, Field: f}, NewState(append(filledOf(s), f), false)
	}

	switch {
	case empty(Author):
		return assign(Author)
	case empty(LifeInfo) && !prev:
		return assign(LifeInfo)
	case empty(Title) && prev:
		return assign(Title)
	case empty(Year) && !prev:
		return assign(Year)
	case empty(Medium) && prev:
		return assign(Medium)
	case empty(Source) && prev:
		return assign(Source)
	case empty(Description) && prev:
		return assign(Description)
	case !empty(Description) && !prev:
		return Step{Action: Append, Field: Description}, NewState(filledOf(s), false)
	default:
		return Step{Action: Drop}, s
	}
}

func filledOf(s State) []Field {
	var out []Field
	for _, f := range Fields() {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func allStates() []State {
	var states []State
	for mask := 0; mask < 1<<numFields; mask++ {
		var filled []Field
		for _, f := range Fields() {
			if mask&(1<<f) != 0 {
				filled = append(filled, f)
			}
		}
		states = append(states, NewState(filled, true), NewState(filled, false))
	}
	return states
}

func TestTransitionTableExhaustive(t *testing.T) {
	states := allStates()
	require.Len(t, states, 256)

	for _, s := range states {
		for _, line := range []string{"", "text"} {
			wantStep, wantNext := cascade(s, line)
			gotStep, gotNext := s.Next(line)
			assert.Equal(t, wantStep, gotStep, "%v on %q", s, line)
			assert.Equal(t, wantNext, gotNext, "%v on %q", s, line)
		}
	}
}

func TestTransitionInvariants(t *testing.T) {
	for _, s := range allStates() {
		step, next := s.Next("text")

		switch step.Action {
		case Assign:
			assert.False(t, s.Has(step.Field), "assign must target an empty field: %v", s)
			assert.True(t, next.Has(step.Field))
			assert.False(t, next.PrevBlank())
		case Append:
			assert.Equal(t, Description, step.Field)
			assert.False(t, s.PrevBlank())
		case Drop:
			assert.Equal(t, s, next)
		default:
			t.Fatalf("non-blank line produced %v", step.Action)
		}

		// Fields are never un-filled
		for _, f := range Fields() {
			if s.Has(f) {
				assert.True(t, next.Has(f))
			}
		}
	}
}

func TestInitialState(t *testing.T) {
	s := Initial()
	assert.True(t, s.PrevBlank())
	assert.False(t, s.Complete())
	assert.True(t, NewState(Fields(), false).Complete())

	step, _ := s.Next("anything")
	assert.Equal(t, Step{Action: Assign, Field: Author}, step)
}

func TestFieldNames(t *testing.T) {
	var names []string
	for _, f := range Fields() {
		names = append(names, f.String())
	}
	assert.Equal(t, "author,life_info,title,year,medium,source,description", strings.Join(names, ","))
	assert.Equal(t, types.PlaqueFields{}.MissingFields(), names)
}
