package ansi

import (
	"github.com/leapstack-labs/leapfluff/pkg/lexer"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Matchers returns the ANSI lexer matchers. Order matters: the first
// matcher to match at a position wins, so longer operators come before
// their prefixes.
func Matchers() lexer.Matchers {
	return lexer.Matchers{
		lexer.Regex("whitespace", `[^\S\r\n]+`, segment.Whitespace),
		lexer.Regex("inline_comment", `(--|#)[^\n]*`, segment.Comment),
		lexer.Regex("block_comment", `\/\*([^\*]|\*(?!\/))*\*\/`, segment.Comment,
			lexer.WithSubdivider(lexer.Regex("newline", `\r\n|\n`, segment.Newline)),
			lexer.WithTrimPostSubdivide(lexer.Regex("whitespace", `[^\S\r\n]+`, segment.Whitespace)),
		),
		lexer.Regex("single_quote", `'([^'\\]|\\.|'')*'`, segment.Code),
		lexer.Regex("double_quote", `"(""|[^"\\]|\\.)*"`, segment.Code),
		lexer.Regex("back_quote", "`(?:[^`\\\\]|\\\\.)*`", segment.Code),
		lexer.Regex("dollar_quote", `(?s)\$(\w*)\$(.*?)\$\1\$`, segment.Code),
		lexer.Regex("numeric_literal",
			`(?>\d+\.\d+|\d+\.(?![\.\w])|\.\d+|\d+)(\.?[eE][+-]?\d+)?((?<=\.)|(?=\b))`,
			segment.Literal),
		lexer.Regex("obevo_annotation", `////\s*(CHANGE|BODY|METADATA)[^\n]*`, segment.Comment),
		lexer.String("glob_operator", "~~~", segment.ComparisonOperator),
		lexer.Regex("like_operator", `!?~~?\*?`, segment.ComparisonOperator),
		lexer.Regex("newline", `\r\n|\n`, segment.Newline),
		lexer.String("casting_operator", "::", segment.Code),
		lexer.String("equals", "=", segment.Code),
		lexer.String("greater_than", ">", segment.Code),
		lexer.String("less_than", "<", segment.Code),
		lexer.String("not", "!", segment.Code),
		lexer.String("dot", ".", segment.Code),
		lexer.String("comma", ",", segment.Code),
		lexer.String("plus", "+", segment.Code),
		lexer.String("minus", "-", segment.Code),
		lexer.String("divide", "/", segment.Code),
		lexer.String("percent", "%", segment.Code),
		lexer.String("question", "?", segment.Code),
		lexer.String("ampersand", "&", segment.Code),
		lexer.String("vertical_bar", "|", segment.Code),
		lexer.String("caret", "^", segment.Code),
		lexer.String("star", "*", segment.Code),
		lexer.String("start_bracket", "(", segment.Code),
		lexer.String("end_bracket", ")", segment.Code),
		lexer.String("start_square_bracket", "[", segment.Code),
		lexer.String("end_square_bracket", "]", segment.Code),
		lexer.String("start_curly_bracket", "{", segment.Code),
		lexer.String("end_curly_bracket", "}", segment.Code),
		lexer.String("colon", ":", segment.Code),
		lexer.String("semicolon", ";", segment.Code),
		lexer.Regex("word", `[0-9a-zA-Z_]+`, segment.Word),
	}
}
