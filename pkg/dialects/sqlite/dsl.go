package sqlite

import (
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
)

var (
	seq          = grammar.Seq
	oneOf        = grammar.OneOf
	anyOf        = grammar.AnyOf
	delimited    = grammar.NewDelimited
	bracketed    = grammar.Brackets
	optBracketed = grammar.OptionallyBracketed
	ref          = grammar.NewRef
	kw           = grammar.Keyword
	anything     = grammar.NewAnything
	nothing      = grammar.Nothing

	optional    = grammar.Optional
	terminators = grammar.Terminators
	exclude     = grammar.Exclude
	minTimes    = grammar.MinTimes
)

func indent() *grammar.Meta  { return grammar.Indent() }
func dedent() *grammar.Meta  { return grammar.Dedent() }
func greedy() grammar.Option { return grammar.Mode(grammar.Greedy) }
