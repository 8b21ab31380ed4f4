package parser

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	errUnbalancedQuote = errors.New("unbalanced quote")
	errDanglingEscape  = errors.New("no character after escape")
	errInvalidUTF8     = errors.New("input is not valid UTF-8")
)

// Token is one shell-style word of a line.
type Token struct {
	Text string
	// Start and End are byte offsets of the raw token in the source line.
	Start, End int
	// Quoted is set when any part of the token was inside quotes.
	Quoted bool
}

// tokenize splits s on whitespace (and on unquoted commas when commaSep is set),
// honoring single quotes, double quotes and backslash escapes the way a POSIX
// shell does: quotes are stripped, `\"` inside double quotes is a literal quote,
// nothing is special inside single quotes.
func tokenize(s string, commaSep bool) ([]Token, error) {
	if !utf8.ValidString(s) {
		return nil, errInvalidUTF8
	}

	var (
		toks   []Token
		cur    strings.Builder
		inTok  bool
		quoted bool
		start  int
		quote  rune
	)

	flush := func(end int) {
		if inTok {
			toks = append(toks, Token{Text: cur.String(), Start: start, End: end, Quoted: quoted})
		}
		cur.Reset()
		inTok, quoted = false, false
	}
	begin := func(i int) {
		if !inTok {
			inTok = true
			start = i
		}
	}

	escaped := false
	for i, r := range s {
		if escaped {
			// inside double quotes only \\ \" and \$ are escapes
			if quote == '"' && r != '"' && r != '\\' && r != '$' {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case quote != 0:
			switch {
			case r == quote:
				quote = 0
			case r == '\\' && quote == '"':
				escaped = true
			default:
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			begin(i)
			quote = r
			quoted = true
		case r == '\\':
			begin(i)
			escaped = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush(i)
		case r == ',' && commaSep:
			flush(i)
		default:
			begin(i)
			cur.WriteRune(r)
		}
	}

	if quote != 0 {
		return nil, errUnbalancedQuote
	}
	if escaped {
		return nil, errDanglingEscape
	}
	flush(len(s))
	return toks, nil
}
