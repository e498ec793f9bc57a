package parser

import "fmt"

// Field identifies one semantic slot of a plaque
type Field uint8

const (
	Author Field = iota
	LifeInfo
	Title
	Year
	Medium
	Source
	Description

	numFields
)

var fieldNames = [numFields]string{
	"author", "life_info", "title", "year", "medium", "source", "description",
}

func (f Field) String() string {
	if f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", uint8(f))
}

// Fields lists every field in layout order
func Fields() []Field {
	return []Field{Author, LifeInfo, Title, Year, Medium, Source, Description}
}

// Adjacency is a guard on what preceded the current line
type Adjacency uint8

const (
	// Any matches regardless of the previous line
	Any Adjacency = iota
	// AfterBlank matches when the previous line was blank (or at start of input)
	AfterBlank
	// AfterText matches when the previous line carried text
	AfterText
)

func (a Adjacency) matches(prevBlank bool) bool {
	switch a {
	case AfterBlank:
		return prevBlank
	case AfterText:
		return !prevBlank
	default:
		return true
	}
}

func (a Adjacency) String() string {
	switch a {
	case AfterBlank:
		return "after-blank"
	case AfterText:
		return "after-text"
	default:
		return "any"
	}
}

// Action is what a line does to the record
type Action uint8

const (
	// Blank marks an empty line; it only sets the blank flag
	Blank Action = iota
	// Assign fills a field that is still empty
	Assign
	// Append extends an already filled field on a new line
	Append
	// Drop discards a line no rule accepts
	Drop
)

func (a Action) String() string {
	switch a {
	case Blank:
		return "blank"
	case Assign:
		return "assign"
	case Append:
		return "append"
	default:
		return "drop"
	}
}

// Rule is one row of the classification table. Assign rules require the
// field to be empty, Append rules require it to be filled.
type Rule struct {
	Field  Field
	When   Adjacency
	Action Action
}

// Rules is evaluated top to bottom for every non-blank line; the first
// applicable row wins. The alternation of AfterText and AfterBlank guards
// encodes the printed layout: name and dates sit on adjacent lines, year
// follows the title directly, the rest are separated by blank lines.
var Rules = [...]Rule{
	{Author, Any, Assign},
	{LifeInfo, AfterText, Assign},
	{Title, AfterBlank, Assign},
	{Year, AfterText, Assign},
	{Medium, AfterBlank, Assign},
	{Source, AfterBlank, Assign},
	{Description, AfterBlank, Assign},
	{Description, AfterText, Append},
}

// State is everything the parser remembers between lines: which fields
// hold text and whether the last line seen was blank.
type State struct {
	filled    uint8
	prevBlank bool
}

// Initial is the state before the first line; input is treated as if it
// were preceded by a blank line.
func Initial() State {
	return State{prevBlank: true}
}

// NewState builds an arbitrary state, for exhaustive testing
func NewState(filled []Field, prevBlank bool) State {
	s := State{prevBlank: prevBlank}
	for _, f := range filled {
		s.filled |= 1 << f
	}
	return s
}

// Has reports whether field f already holds text
func (s State) Has(f Field) bool {
	return s.filled&(1<<f) != 0
}

// PrevBlank reports whether the last line seen was blank
func (s State) PrevBlank() bool {
	return s.prevBlank
}

// Complete reports whether every field holds text
func (s State) Complete() bool {
	return s.filled == 1<<numFields-1
}

func (s State) String() string {
	return fmt.Sprintf("State{filled: %07b, prevBlank: %v}", s.filled, s.prevBlank)
}

// Step is the effect of one line
type Step struct {
	Action Action
	// Field is meaningful for Assign and Append only
	Field Field
}

// Next classifies one trimmed line and returns its effect with the
// following state. A dropped line leaves the blank flag untouched.
func (s State) Next(line string) (Step, State) {
	if line == "" {
		return Step{Action: Blank}, State{filled: s.filled, prevBlank: true}
	}

	for _, r := range Rules {
		if !r.When.matches(s.prevBlank) {
			continue
		}
		switch r.Action {
		case Assign:
			if s.Has(r.Field) {
				continue
			}
		case Append:
			if !s.Has(r.Field) {
				continue
			}
		}
		return Step{Action: r.Action, Field: r.Field},
			State{filled: s.filled | 1<<r.Field, prevBlank: false}
	}

	return Step{Action: Drop}, s
}
