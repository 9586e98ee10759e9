package evalengine

import (
	"sort"

	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/otelbridge/otel-bridge/internal/sqlquery"
	"github.com/otelbridge/otel-bridge/internal/store"
)

// EvalTraces filters, orders, and limits the store's trace groups against a
// parsed query. A group matches if any of its spans match the WHERE tree.
func EvalTraces(s *store.Store, q *sqlquery.Query) []*store.TraceGroup {
	all := s.AllTraces()
	results := make([]*store.TraceGroup, 0, len(all))
	for _, g := range all {
		if traceGroupMatches(g, q.Where) {
			results = append(results, g)
		}
	}

	if len(q.OrderBy) > 0 {
		col := q.OrderBy[0].Column
		desc := q.OrderBy[0].Desc
		sort.SliceStable(results, func(i, j int) bool {
			cmp := CompareSortValues(traceGroupSortValue(results[i], col), traceGroupSortValue(results[j], col))
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	return applyLimit(results, q.Limit)
}

// FilterTraceGroups applies just the WHERE predicate to an already-fetched
// slice of trace groups, for follow-subscription delta re-evaluation where
// ORDER BY/LIMIT do not apply.
func FilterTraceGroups(groups []*store.TraceGroup, expr *sqlquery.WhereExpr) []*store.TraceGroup {
	out := make([]*store.TraceGroup, 0, len(groups))
	for _, g := range groups {
		if traceGroupMatches(g, expr) {
			out = append(out, g)
		}
	}
	return out
}

func traceGroupMatches(g *store.TraceGroup, expr *sqlquery.WhereExpr) bool {
	if expr == nil {
		return true
	}
	for _, rs := range g.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			for _, span := range ss.Spans {
				if evalWhere(spanResolver(span, rs.Resource), expr) {
					return true
				}
			}
		}
	}
	return false
}

func traceGroupSortValue(g *store.TraceGroup, column string) SortValue {
	for _, rs := range g.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			for _, span := range ss.Spans {
				return fieldToSort(resolveSpanColumn(span, rs.Resource, sqlquery.NamedColumn(column)))
			}
		}
	}
	return SortValue{Kind: SortNull}
}

func spanResolver(span *tracepb.Span, resource *resourcepb.Resource) resolver {
	return func(col sqlquery.ColumnRef) FieldValue {
		return resolveSpanColumn(span, resource, col)
	}
}

func resolveSpanColumn(span *tracepb.Span, resource *resourcepb.Resource, col sqlquery.ColumnRef) FieldValue {
	if col.Bracket {
		switch col.Base {
		case "attributes":
			return LookupAttribute(span.Attributes, col.Key)
		case "resource":
			return LookupAttribute(resourceAttrs(resource), col.Key)
		default:
			return NullField()
		}
	}
	switch col.Named {
	case "trace_id":
		return StringField(hexEncode(span.TraceId))
	case "span_id":
		return StringField(hexEncode(span.SpanId))
	case "parent_span_id":
		if len(span.ParentSpanId) == 0 {
			return NullField()
		}
		return StringField(hexEncode(span.ParentSpanId))
	case "service_name":
		return StringField(GetServiceName(resource))
	case "span_name":
		return StringField(span.Name)
	case "kind":
		return NumberField(float64(span.Kind))
	case "status_code":
		var code int32
		if span.Status != nil {
			code = int32(span.Status.Code)
		}
		return NumberField(float64(code))
	case "start_time":
		return NumberField(float64(span.StartTimeUnixNano))
	case "end_time":
		return NumberField(float64(span.EndTimeUnixNano))
	case "duration_ns":
		return NumberField(float64(span.EndTimeUnixNano) - float64(span.StartTimeUnixNano))
	default:
		return NullField()
	}
}
