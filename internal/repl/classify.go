package repl

import (
	"regexp"
	"strings"
)

// Kind is the dispatch class of a logical line
type Kind int

const (
	// Expression lines are evaluated and their value displayed
	Expression Kind = iota
	// Statement lines are executed for their side effects only
	Statement
)

func (k Kind) String() string {
	if k == Statement {
		return "statement"
	}
	return "expression"
}

// statementKeywords introduce lines that have no value to display
var statementKeywords = []string{
	"echo",
	"global",
	"unset",
	"function",
	"do",
	"while",
	"for",
	"foreach",
	"if",
	"switch",
	"include",
	"include_once",
	"require",
	"require_once",
}

var (
	statementPattern = keywordPattern(statementKeywords...)
	returnPattern    = keywordPattern("return")
)

// keywordPattern matches a line starting with one of words followed by
// whitespace or an opening parenthesis.
func keywordPattern(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`^(` + strings.Join(quoted, "|") + `)[(\s]+`)
}

// Normalize strips trailing semicolons and appends exactly one
func Normalize(line string) string {
	return strings.TrimRight(line, ";") + ";"
}

// Classify reports whether line is a statement or an expression. The match
// is a case-sensitive keyword prefix, not a parse.
func Classify(line string) Kind {
	if statementPattern.MatchString(line) {
		return Statement
	}
	return Expression
}

// AsReturn prefixes line with "return " unless it already returns
func AsReturn(line string) string {
	if returnPattern.MatchString(line) {
		return line
	}
	return "return " + line
}
