// Package sqlquery implements the restricted SELECT dialect the query
// service accepts: one of three virtual tables, an optional WHERE tree over
// comparisons/LIKE/regex/IN/IS NULL, ORDER BY a single column, and LIMIT.
//
// No off-the-shelf Go SQL parser in the surrounding ecosystem recognizes
// this dialect's bracket-subscript attribute access (attributes['key']) or
// its ~ / !~ regex operators, so the grammar is hand-rolled: a lexer plus a
// small recursive-descent parser, in the spirit of the same hand-authored
// AST-conversion layer a generic SQL parser needs to be taught this dialect.
package sqlquery

import "github.com/otelbridge/otel-bridge/internal/query"

type Projection struct {
	All     bool
	Columns []ColumnRef
}

// ColumnRef is either a bare identifier or a bracket-subscript access such
// as attributes['http.method'] / resource['service.name'].
type ColumnRef struct {
	Named  string
	Base   string
	Key    string
	Bracket bool
}

func NamedColumn(name string) ColumnRef { return ColumnRef{Named: name} }
func BracketColumn(base, key string) ColumnRef {
	return ColumnRef{Base: base, Key: key, Bracket: true}
}

type CompOp int

const (
	OpEq CompOp = iota
	OpNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
)

type ValueKind int

const (
	ValString ValueKind = iota
	ValNumber
	ValBoolean
)

type Value struct {
	Kind   ValueKind
	Str    string
	Num    float64
	Bool   bool
}

func StringVal(s string) Value  { return Value{Kind: ValString, Str: s} }
func NumberVal(n float64) Value { return Value{Kind: ValNumber, Num: n} }
func BoolVal(b bool) Value      { return Value{Kind: ValBoolean, Bool: b} }

// WhereExpr is the recursive predicate tree.
type WhereExpr struct {
	// Kind discriminates which fields are meaningful.
	Kind ExprKind

	Column ColumnRef
	Op     CompOp
	Value  Value

	Pattern string
	Negated bool

	Values []Value

	Left  *WhereExpr
	Right *WhereExpr
	Inner *WhereExpr
}

type ExprKind int

const (
	ExprComparison ExprKind = iota
	ExprLike
	ExprRegexMatch
	ExprInList
	ExprIsNull
	ExprAnd
	ExprOr
	ExprNot
)

type OrderByItem struct {
	Column string
	Desc   bool
}

type Query struct {
	Table      query.TargetTable
	Where      *WhereExpr
	Limit      *int
	OrderBy    []OrderByItem
	Projection Projection
}
