package ansi

import (
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Shorthands for the grammar constructors, to keep rule tables readable.
var (
	seq          = grammar.Seq
	oneOf        = grammar.OneOf
	anyOf        = grammar.AnyOf
	anySetOf     = grammar.AnySetOf
	delimited    = grammar.NewDelimited
	bracketed    = grammar.Brackets
	optBracketed = grammar.OptionallyBracketed
	ref          = grammar.NewRef
	kw           = grammar.Keyword
	anything     = grammar.NewAnything
	nothing      = grammar.Nothing

	optional    = grammar.Optional
	noGaps      = grammar.NoGaps
	terminators = grammar.Terminators
	exclude     = grammar.Exclude
	minTimes    = grammar.MinTimes
)

func indent() *grammar.Meta         { return grammar.Indent() }
func dedent() *grammar.Meta         { return grammar.Dedent() }
func implicitIndent() *grammar.Meta { return grammar.ImplicitIndent() }

// when emits meta only when the named indentation flag is set.
func when(meta *grammar.Meta, flag string) *grammar.Conditional {
	return grammar.NewConditional(meta, map[string]bool{flag: true})
}

func greedy() grammar.Option           { return grammar.Mode(grammar.Greedy) }
func resetTerminators() grammar.Option { return grammar.ResetTerminators() }

func symbol(raw, typ string) *grammar.StringParser {
	return grammar.NewStringParser(raw, segment.Symbol, grammar.WithType(typ))
}

func rawComparison(raw string) *grammar.StringParser {
	return grammar.NewStringParser(raw, segment.Symbol, grammar.WithType("raw_comparison_operator"))
}
