package evalengine

import "github.com/otelbridge/otel-bridge/internal/sqlquery"

// resolver maps a column reference to a FieldValue for one record; each
// table's per-shape resolve function is adapted to this shape so the tree
// walk below is written once and shared across traces, logs, and every
// metric data-point kind.
type resolver func(col sqlquery.ColumnRef) FieldValue

// evalWhere walks the predicate tree generically over a resolver, mirroring
// the shared eval_where_generic used by every table's matcher.
func evalWhere(resolve resolver, expr *sqlquery.WhereExpr) bool {
	if expr == nil {
		return true
	}
	switch expr.Kind {
	case sqlquery.ExprComparison:
		return CompareFieldValue(resolve(expr.Column), expr.Op, expr.Value)
	case sqlquery.ExprLike:
		s := FieldValueToString(resolve(expr.Column))
		matched := LikeMatch(s, expr.Pattern)
		if expr.Negated {
			return !matched
		}
		return matched
	case sqlquery.ExprRegexMatch:
		s := FieldValueToString(resolve(expr.Column))
		matched := RegexMatch(s, expr.Pattern)
		if expr.Negated {
			return !matched
		}
		return matched
	case sqlquery.ExprInList:
		fv := resolve(expr.Column)
		matched := false
		for _, v := range expr.Values {
			if CompareFieldValue(fv, sqlquery.OpEq, v) {
				matched = true
				break
			}
		}
		if expr.Negated {
			return !matched
		}
		return matched
	case sqlquery.ExprIsNull:
		isNull := resolve(expr.Column).Kind == FieldNull
		if expr.Negated {
			return !isNull
		}
		return isNull
	case sqlquery.ExprAnd:
		return evalWhere(resolve, expr.Left) && evalWhere(resolve, expr.Right)
	case sqlquery.ExprOr:
		return evalWhere(resolve, expr.Left) || evalWhere(resolve, expr.Right)
	case sqlquery.ExprNot:
		return !evalWhere(resolve, expr.Inner)
	default:
		return false
	}
}

func applyLimit[T any](items []T, limit *int) []T {
	if limit != nil && *limit < len(items) {
		return items[:*limit]
	}
	return items
}
