package sqlquery

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString   // single-quoted
	tokDQString // double-quoted, promoted to string value at parse time
	tokNumber
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokEq
	tokNotEq
	tokLt
	tokGt
	tokLtEq
	tokGtEq
	tokRegexMatch
	tokRegexNotMatch
	tokDot
	tokStar
)

type token struct {
	kind tokenKind
	text string
}

// lex tokenizes the restricted dialect. It is intentionally small: there is
// no need to support the full breadth of SQL literal syntax, only what this
// grammar's keywords and operators require.
func lex(input string) ([]token, error) {
	var toks []token
	runes := []rune(input)
	i, n := 0, len(runes)

	for i < n {
		c := runes[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '[':
			toks = append(toks, token{tokLBracket, "["})
			i++
		case c == ']':
			toks = append(toks, token{tokRBracket, "]"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case c == '*':
			toks = append(toks, token{tokStar, "*"})
			i++
		case c == '.':
			toks = append(toks, token{tokDot, "."})
			i++
		case c == '=':
			toks = append(toks, token{tokEq, "="})
			i++
		case c == '!' && i+1 < n && runes[i+1] == '=':
			toks = append(toks, token{tokNotEq, "!="})
			i += 2
		case c == '!' && i+1 < n && runes[i+1] == '~':
			toks = append(toks, token{tokRegexNotMatch, "!~"})
			i += 2
		case c == '~':
			toks = append(toks, token{tokRegexMatch, "~"})
			i++
		case c == '<' && i+1 < n && runes[i+1] == '=':
			toks = append(toks, token{tokLtEq, "<="})
			i += 2
		case c == '>' && i+1 < n && runes[i+1] == '=':
			toks = append(toks, token{tokGtEq, ">="})
			i += 2
		case c == '<':
			toks = append(toks, token{tokLt, "<"})
			i++
		case c == '>':
			toks = append(toks, token{tokGt, ">"})
			i++
		case c == '\'':
			s, adv, err := readQuoted(runes[i:], '\'')
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokString, s})
			i += adv
		case c == '"':
			s, adv, err := readQuoted(runes[i:], '"')
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokDQString, s})
			i += adv
		case isDigit(c):
			j := i
			for j < n && (isDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, string(runes[i:j])})
			i = j
		case isIdentStart(c):
			j := i
			for j < n && isIdentPart(runes[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, string(runes[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

func readQuoted(runes []rune, quote rune) (string, int, error) {
	var b strings.Builder
	i := 1
	n := len(runes)
	for i < n {
		if runes[i] == quote {
			// doubled quote is an escaped literal quote
			if i+1 < n && runes[i+1] == quote {
				b.WriteRune(quote)
				i += 2
				continue
			}
			return b.String(), i + 1, nil
		}
		b.WriteRune(runes[i])
		i++
	}
	return "", 0, fmt.Errorf("unterminated quoted string")
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }
func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}
