package sqlquery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/otelbridge/otel-bridge/internal/query"
)

type parser struct {
	toks []token
	pos  int
}

// Parse accepts a single SELECT statement over one of the three virtual
// tables. Errors are returned, never panicked: unknown table, unsupported
// expression form, unparsable input, and a non-integer LIMIT are all
// reported as descriptive messages rather than thrown.
func Parse(sql string) (*Query, error) {
	toks, err := lex(sql)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	q, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing input near %q", p.cur().text)
	}
	return q, nil
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) kw(name string) bool {
	t := p.cur()
	return t.kind == tokIdent && strings.EqualFold(t.text, name)
}

func (p *parser) expectKw(name string) error {
	if !p.kw(name) {
		return fmt.Errorf("expected %s, got %q", name, p.cur().text)
	}
	p.advance()
	return nil
}

func (p *parser) parseSelect() (*Query, error) {
	if err := p.expectKw("SELECT"); err != nil {
		return nil, err
	}

	projection, err := p.parseProjection()
	if err != nil {
		return nil, err
	}

	if err := p.expectKw("FROM"); err != nil {
		return nil, err
	}
	if p.cur().kind != tokIdent {
		return nil, fmt.Errorf("expected table name, got %q", p.cur().text)
	}
	tableName := p.advance().text
	var table query.TargetTable
	switch strings.ToLower(tableName) {
	case "traces":
		table = query.TargetTraces
	case "logs":
		table = query.TargetLogs
	case "metrics":
		table = query.TargetMetrics
	default:
		return nil, fmt.Errorf("unknown table: %s", tableName)
	}

	var where *WhereExpr
	if p.kw("WHERE") {
		p.advance()
		where, err = p.parseOr()
		if err != nil {
			return nil, err
		}
	}

	var orderBy []OrderByItem
	if p.kw("ORDER") {
		p.advance()
		if err := p.expectKw("BY"); err != nil {
			return nil, err
		}
		if p.cur().kind != tokIdent {
			return nil, fmt.Errorf("ORDER BY must reference a column name")
		}
		col := p.advance().text
		desc := false
		if p.kw("DESC") {
			p.advance()
			desc = true
		} else if p.kw("ASC") {
			p.advance()
		}
		orderBy = append(orderBy, OrderByItem{Column: col, Desc: desc})
	}

	var limit *int
	if p.kw("LIMIT") {
		p.advance()
		if p.cur().kind != tokNumber {
			return nil, fmt.Errorf("LIMIT must be a number")
		}
		n, err := strconv.Atoi(p.advance().text)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid LIMIT value")
		}
		limit = &n
	}

	return &Query{Table: table, Where: where, Limit: limit, OrderBy: orderBy, Projection: projection}, nil
}

func (p *parser) parseProjection() (Projection, error) {
	if p.cur().kind == tokStar {
		p.advance()
		return Projection{All: true}, nil
	}
	var cols []ColumnRef
	for {
		col, err := p.parseColumnRef()
		if err != nil {
			return Projection{}, err
		}
		cols = append(cols, col)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	return Projection{Columns: cols}, nil
}

func (p *parser) parseColumnRef() (ColumnRef, error) {
	if p.cur().kind != tokIdent {
		return ColumnRef{}, fmt.Errorf("expected column reference, got %q", p.cur().text)
	}
	name := p.advance().text

	if p.cur().kind == tokLBracket {
		p.advance()
		key, err := p.parseBracketKey()
		if err != nil {
			return ColumnRef{}, err
		}
		if p.cur().kind != tokRBracket {
			return ColumnRef{}, fmt.Errorf("expected ']'")
		}
		p.advance()
		return BracketColumn(name, key), nil
	}

	if p.cur().kind == tokDot {
		p.advance()
		if p.cur().kind != tokIdent {
			return ColumnRef{}, fmt.Errorf("expected identifier after '.'")
		}
		key := p.advance().text
		return BracketColumn(name, key), nil
	}

	return NamedColumn(name), nil
}

func (p *parser) parseBracketKey() (string, error) {
	t := p.cur()
	switch t.kind {
	case tokString, tokDQString:
		p.advance()
		return t.text, nil
	case tokIdent:
		p.advance()
		return t.text, nil
	default:
		return "", fmt.Errorf("subscript key must be a string, got %q", t.text)
	}
}

func (p *parser) parseOr() (*WhereExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.kw("OR") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &WhereExpr{Kind: ExprOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (*WhereExpr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.kw("AND") {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &WhereExpr{Kind: ExprAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (*WhereExpr, error) {
	if p.kw("NOT") {
		p.advance()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &WhereExpr{Kind: ExprNot, Inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*WhereExpr, error) {
	if p.cur().kind == tokLParen {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tokRParen {
			return nil, fmt.Errorf("expected ')'")
		}
		p.advance()
		return expr, nil
	}

	col, err := p.parseColumnRef()
	if err != nil {
		return nil, err
	}

	if p.kw("IS") {
		p.advance()
		negated := false
		if p.kw("NOT") {
			p.advance()
			negated = true
		}
		if err := p.expectKw("NULL"); err != nil {
			return nil, err
		}
		return &WhereExpr{Kind: ExprIsNull, Column: col, Negated: negated}, nil
	}

	negated := false
	if p.kw("NOT") {
		p.advance()
		negated = true
	}

	if p.kw("LIKE") {
		p.advance()
		pattern, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return &WhereExpr{Kind: ExprLike, Column: col, Pattern: pattern, Negated: negated}, nil
	}

	if p.kw("IN") {
		p.advance()
		if p.cur().kind != tokLParen {
			return nil, fmt.Errorf("expected '(' after IN")
		}
		p.advance()
		var values []Value
		for {
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
		if p.cur().kind != tokRParen {
			return nil, fmt.Errorf("expected ')'")
		}
		p.advance()
		return &WhereExpr{Kind: ExprInList, Column: col, Values: values, Negated: negated}, nil
	}

	if negated {
		return nil, fmt.Errorf("unsupported expression: NOT must precede LIKE or IN here")
	}

	switch p.cur().kind {
	case tokEq, tokNotEq, tokLt, tokGt, tokLtEq, tokGtEq:
		op := compOpFor(p.advance().kind)
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return &WhereExpr{Kind: ExprComparison, Column: col, Op: op, Value: val}, nil
	case tokRegexMatch:
		p.advance()
		pattern, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return &WhereExpr{Kind: ExprRegexMatch, Column: col, Pattern: pattern, Negated: false}, nil
	case tokRegexNotMatch:
		p.advance()
		pattern, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return &WhereExpr{Kind: ExprRegexMatch, Column: col, Pattern: pattern, Negated: true}, nil
	default:
		return nil, fmt.Errorf("unsupported expression near %q", p.cur().text)
	}
}

func compOpFor(k tokenKind) CompOp {
	switch k {
	case tokEq:
		return OpEq
	case tokNotEq:
		return OpNotEq
	case tokLt:
		return OpLt
	case tokGt:
		return OpGt
	case tokLtEq:
		return OpLtEq
	case tokGtEq:
		return OpGtEq
	}
	return OpEq
}

func (p *parser) parseValue() (Value, error) {
	t := p.cur()
	switch t.kind {
	case tokString, tokDQString:
		p.advance()
		return StringVal(t.text), nil
	case tokNumber:
		p.advance()
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number: %s", t.text)
		}
		return NumberVal(f), nil
	case tokIdent:
		// A bare identifier in value position (true/false, or a loosely
		// typed REPL literal) is promoted to a string/boolean for
		// convenience, matching how a double-quoted literal is accepted.
		p.advance()
		switch strings.ToLower(t.text) {
		case "true":
			return BoolVal(true), nil
		case "false":
			return BoolVal(false), nil
		default:
			return StringVal(t.text), nil
		}
	default:
		return Value{}, fmt.Errorf("expected a literal value, got %q", t.text)
	}
}

func (p *parser) parseStringLiteral() (string, error) {
	v, err := p.parseValue()
	if err != nil {
		return "", err
	}
	if v.Kind != ValString {
		return "", fmt.Errorf("expected string value")
	}
	return v.Str, nil
}
