package evalengine

import (
	"sort"

	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"

	"github.com/otelbridge/otel-bridge/internal/sqlquery"
	"github.com/otelbridge/otel-bridge/internal/store"
)

// EvalLogs filters, orders, and limits the store's logs against a parsed
// query. A ResourceLogs matches if any of its log records match.
func EvalLogs(s *store.Store, q *sqlquery.Query) []*logspb.ResourceLogs {
	all := s.AllLogs()
	results := make([]*logspb.ResourceLogs, 0, len(all))
	for _, rl := range all {
		if resourceLogsMatches(rl, q.Where) {
			results = append(results, rl)
		}
	}

	if len(q.OrderBy) > 0 {
		col := q.OrderBy[0].Column
		desc := q.OrderBy[0].Desc
		sort.SliceStable(results, func(i, j int) bool {
			cmp := CompareSortValues(resourceLogsSortValue(results[i], col), resourceLogsSortValue(results[j], col))
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	return applyLimit(results, q.Limit)
}

// FilterLogs applies just the WHERE predicate to an already-fetched slice
// of ResourceLogs, for follow-subscription delta re-evaluation.
func FilterLogs(logs []*logspb.ResourceLogs, expr *sqlquery.WhereExpr) []*logspb.ResourceLogs {
	out := make([]*logspb.ResourceLogs, 0, len(logs))
	for _, rl := range logs {
		if resourceLogsMatches(rl, expr) {
			out = append(out, rl)
		}
	}
	return out
}

func resourceLogsMatches(rl *logspb.ResourceLogs, expr *sqlquery.WhereExpr) bool {
	if expr == nil {
		return true
	}
	for _, sl := range rl.ScopeLogs {
		for _, lr := range sl.LogRecords {
			if evalLogExpr(lr, rl.Resource, expr) {
				return true
			}
		}
	}
	return false
}

// evalLogExpr special-cases a comparison against the "severity" column: when
// the literal is a string and both the record's severity text and the
// literal convert via the ordinal table, the comparison runs numerically
// instead of lexically ("WARN" <= "ERROR" would otherwise sort wrong).
func evalLogExpr(lr *logspb.LogRecord, resource *resourcepb.Resource, expr *sqlquery.WhereExpr) bool {
	if expr.Kind == sqlquery.ExprComparison && expr.Column.Named == "severity" && expr.Value.Kind == sqlquery.ValString {
		recordNum, recordOK := store.SeverityTextToNumber(lr.SeverityText)
		thresholdNum, thresholdOK := store.SeverityTextToNumber(expr.Value.Str)
		if recordOK && thresholdOK {
			return CompareFieldValue(NumberField(float64(recordNum)), expr.Op, sqlquery.NumberVal(float64(thresholdNum)))
		}
	}

	switch expr.Kind {
	case sqlquery.ExprAnd:
		return evalLogExpr(lr, resource, expr.Left) && evalLogExpr(lr, resource, expr.Right)
	case sqlquery.ExprOr:
		return evalLogExpr(lr, resource, expr.Left) || evalLogExpr(lr, resource, expr.Right)
	case sqlquery.ExprNot:
		return !evalLogExpr(lr, resource, expr.Inner)
	default:
		return evalWhere(logResolver(lr, resource), expr)
	}
}

func resourceLogsSortValue(rl *logspb.ResourceLogs, column string) SortValue {
	for _, sl := range rl.ScopeLogs {
		for _, lr := range sl.LogRecords {
			return fieldToSort(resolveLogColumn(lr, rl.Resource, sqlquery.NamedColumn(column)))
		}
	}
	return SortValue{Kind: SortNull}
}

func logResolver(lr *logspb.LogRecord, resource *resourcepb.Resource) resolver {
	return func(col sqlquery.ColumnRef) FieldValue {
		return resolveLogColumn(lr, resource, col)
	}
}

func resolveLogColumn(lr *logspb.LogRecord, resource *resourcepb.Resource, col sqlquery.ColumnRef) FieldValue {
	if col.Bracket {
		switch col.Base {
		case "attributes":
			return LookupAttribute(lr.Attributes, col.Key)
		case "resource":
			return LookupAttribute(resourceAttrs(resource), col.Key)
		default:
			return NullField()
		}
	}
	switch col.Named {
	case "timestamp":
		return NumberField(float64(lr.TimeUnixNano))
	case "severity":
		return StringField(lr.SeverityText)
	case "severity_number":
		return NumberField(float64(lr.SeverityNumber))
	case "body":
		if lr.Body == nil {
			return NullField()
		}
		return StringField(ExtractAnyValueString(lr.Body))
	case "service_name":
		return StringField(GetServiceName(resource))
	default:
		return NullField()
	}
}
