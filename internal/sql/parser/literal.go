package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tuannm99/primdb/internal/record"
)

var (
	ErrMalformedClause    = errors.New("malformed condition, use column = value")
	ErrMalformedValueList = errors.New("malformed value list")
)

// ParseAssignment parses "col = value" (used by both WHERE and SET) into a
// single-entry map. Only one condition is supported; AND/OR are not keywords.
func ParseAssignment(text string) (map[string]record.Value, error) {
	key, raw, ok := strings.Cut(text, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedClause, strings.TrimSpace(text))
	}
	return map[string]record.Value{key: inferQuoted(strings.TrimSpace(raw))}, nil
}

// ParseLiteralList splits a value list on whitespace and unquoted commas,
// e.g. `"Mike", 19, true` -> [str Mike, int 19, bool true].
// Quotes only group a token; `"19"` is still the integer 19.
func ParseLiteralList(text string) ([]record.Value, error) {
	toks, err := tokenize(text, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrMalformedValueList, err, text)
	}
	out := make([]record.Value, 0, len(toks))
	for _, tok := range toks {
		out = append(out, inferLiteral(tok.Text))
	}
	return out, nil
}

// inferQuoted strips one pair of matching quotes (-> string) before falling back
// to inferLiteral.
func inferQuoted(s string) record.Value {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return record.Str(s[1 : len(s)-1])
	}
	return inferLiteral(s)
}

// inferLiteral: true/false (any case) -> bool, base-10 integer -> int, else string.
func inferLiteral(s string) record.Value {
	switch strings.ToLower(s) {
	case "true":
		return record.Bool(true)
	case "false":
		return record.Bool(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return record.Int(i)
	}
	return record.Str(s)
}
