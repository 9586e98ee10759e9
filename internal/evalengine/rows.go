package evalengine

import (
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"

	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/otelbridge/otel-bridge/internal/query"
	"github.com/otelbridge/otel-bridge/internal/sqlquery"
	"github.com/otelbridge/otel-bridge/internal/store"
)

// Every default projection carries the bare "resource" and "attributes"
// columns as whole kv-lists in addition to the scalar columns, mirroring
// the CLI's expectation of a Resource:/Attributes: block alongside the
// per-record summary line (see internal/cliformat).
var defaultTraceColumns = []string{
	"trace_id", "span_id", "parent_span_id", "service_name", "span_name",
	"kind", "status_code", "start_time", "end_time", "duration_ns",
	"resource", "attributes",
}

var defaultLogColumns = []string{
	"timestamp", "severity", "severity_number", "body", "service_name",
	"resource", "attributes",
}

var defaultMetricColumns = []string{
	"timestamp", "metric_name", "type", "value", "count", "sum", "service_name",
	"resource", "attributes",
}

func toRowValue(fv FieldValue) query.RowValue {
	switch fv.Kind {
	case FieldString:
		return query.StringValue(fv.Str)
	case FieldNumber:
		return query.NumberValue(fv.Num)
	default:
		return query.NullValue()
	}
}

func projectionColumns(p sqlquery.Projection, defaults []string) []sqlquery.ColumnRef {
	if p.All {
		cols := make([]sqlquery.ColumnRef, len(defaults))
		for i, name := range defaults {
			cols[i] = sqlquery.NamedColumn(name)
		}
		return cols
	}
	return p.Columns
}

func columnLabel(col sqlquery.ColumnRef) string {
	if col.Bracket {
		return col.Base + "." + col.Key
	}
	return col.Named
}

// ProjectTraceRows flattens matching trace groups to one row per span.
func ProjectTraceRows(groups []*store.TraceGroup, proj sqlquery.Projection) []query.Row {
	cols := projectionColumns(proj, defaultTraceColumns)
	var rows []query.Row
	for _, g := range groups {
		for _, rs := range g.ResourceSpans {
			for _, ss := range rs.ScopeSpans {
				for _, span := range ss.Spans {
					rows = append(rows, projectSpanRow(span, rs.Resource, cols))
				}
			}
		}
	}
	return rows
}

// TraceGroupRows is one trace_id's projected rows, preserving the store's
// one-trace_id-per-group structure instead of ProjectTraceRows' flattened
// span list. Backs the SqlQuery/FollowSql trace_groups field (spec.md §6),
// populated only for queries against the traces table.
type TraceGroupRows struct {
	TraceID []byte
	Rows    []query.Row
}

// ProjectTraceGroups projects each matching trace group independently,
// rather than flattening them into one span list, so every group's trace_id
// stays attached to its own rows.
func ProjectTraceGroups(groups []*store.TraceGroup, proj sqlquery.Projection) []TraceGroupRows {
	out := make([]TraceGroupRows, 0, len(groups))
	for _, g := range groups {
		out = append(out, TraceGroupRows{
			TraceID: g.TraceID,
			Rows:    ProjectTraceRows([]*store.TraceGroup{g}, proj),
		})
	}
	return out
}

func projectSpanRow(span *tracepb.Span, resource *resourcepb.Resource, cols []sqlquery.ColumnRef) query.Row {
	return projectRow(cols, span.Attributes, resource, func(col sqlquery.ColumnRef) FieldValue {
		return resolveSpanColumn(span, resource, col)
	})
}

// projectRow builds one packed row, resolving the bare "resource" and
// "attributes" columns as whole kv-lists and delegating every other column
// (including bracket-subscript access to a single attribute) to resolve.
func projectRow(cols []sqlquery.ColumnRef, attrs []*commonpb.KeyValue, resource *resourcepb.Resource, resolve func(sqlquery.ColumnRef) FieldValue) query.Row {
	row := query.Row{Columns: make([]string, len(cols)), Values: make([]query.RowValue, len(cols))}
	for i, col := range cols {
		row.Columns[i] = columnLabel(col)
		switch {
		case !col.Bracket && col.Named == "resource":
			row.Values[i] = query.RowValue{KVList: KVsToRowKVList(resourceAttrs(resource))}
		case !col.Bracket && col.Named == "attributes":
			row.Values[i] = query.RowValue{KVList: KVsToRowKVList(attrs)}
		default:
			row.Values[i] = toRowValue(resolve(col))
		}
	}
	return row
}

// ProjectLogRows flattens matching ResourceLogs to one row per record.
func ProjectLogRows(logs []*logspb.ResourceLogs, proj sqlquery.Projection) []query.Row {
	cols := projectionColumns(proj, defaultLogColumns)
	var rows []query.Row
	for _, rl := range logs {
		for _, sl := range rl.ScopeLogs {
			for _, lr := range sl.LogRecords {
				rows = append(rows, projectRow(cols, lr.Attributes, rl.Resource, func(col sqlquery.ColumnRef) FieldValue {
					return resolveLogColumn(lr, rl.Resource, col)
				}))
			}
		}
	}
	return rows
}

// ProjectMetricRows flattens matching ResourceMetrics to one row per data
// point, resolved through the shape-specific resolver for its metric kind.
func ProjectMetricRows(metrics []*metricspb.ResourceMetrics, proj sqlquery.Projection) []query.Row {
	cols := projectionColumns(proj, defaultMetricColumns)
	var rows []query.Row
	for _, rm := range metrics {
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				metricType := metricTypeName(m)
				switch d := m.Data.(type) {
				case *metricspb.Metric_Gauge:
					for _, dp := range d.Gauge.DataPoints {
						rows = append(rows, projectRow(cols, dp.Attributes, rm.Resource, numberDataPointResolver(dp, m, rm.Resource, metricType)))
					}
				case *metricspb.Metric_Sum:
					for _, dp := range d.Sum.DataPoints {
						rows = append(rows, projectRow(cols, dp.Attributes, rm.Resource, numberDataPointResolver(dp, m, rm.Resource, metricType)))
					}
				case *metricspb.Metric_Histogram:
					for _, dp := range d.Histogram.DataPoints {
						rows = append(rows, projectRow(cols, dp.Attributes, rm.Resource, histogramResolver(dp, m, rm.Resource, metricType)))
					}
				case *metricspb.Metric_ExponentialHistogram:
					for _, dp := range d.ExponentialHistogram.DataPoints {
						rows = append(rows, projectRow(cols, dp.Attributes, rm.Resource, expHistogramResolver(dp, m, rm.Resource, metricType)))
					}
				case *metricspb.Metric_Summary:
					for _, dp := range d.Summary.DataPoints {
						rows = append(rows, projectRow(cols, dp.Attributes, rm.Resource, summaryResolver(dp, m, rm.Resource, metricType)))
					}
				}
			}
		}
	}
	return rows
}

