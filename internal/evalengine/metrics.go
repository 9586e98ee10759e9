package evalengine

import (
	"sort"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"

	"github.com/otelbridge/otel-bridge/internal/sqlquery"
	"github.com/otelbridge/otel-bridge/internal/store"
)

// EvalMetrics filters, orders, and limits the store's metrics against a
// parsed query. Each of the five metric shapes resolves its own column set;
// only Gauge and Sum data points contribute an ORDER BY sort value, matching
// the original (Histogram/ExponentialHistogram/Summary have no single
// "value" to sort on).
func EvalMetrics(s *store.Store, q *sqlquery.Query) []*metricspb.ResourceMetrics {
	all := s.AllMetrics()
	results := make([]*metricspb.ResourceMetrics, 0, len(all))
	for _, rm := range all {
		if resourceMetricsMatches(rm, q.Where) {
			results = append(results, rm)
		}
	}

	if len(q.OrderBy) > 0 {
		col := q.OrderBy[0].Column
		desc := q.OrderBy[0].Desc
		sort.SliceStable(results, func(i, j int) bool {
			cmp := CompareSortValues(resourceMetricsSortValue(results[i], col), resourceMetricsSortValue(results[j], col))
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	return applyLimit(results, q.Limit)
}

func metricTypeName(m *metricspb.Metric) string {
	switch m.Data.(type) {
	case *metricspb.Metric_Gauge:
		return "gauge"
	case *metricspb.Metric_Sum:
		return "sum"
	case *metricspb.Metric_Histogram:
		return "histogram"
	case *metricspb.Metric_ExponentialHistogram:
		return "exponential_histogram"
	case *metricspb.Metric_Summary:
		return "summary"
	default:
		return "unknown"
	}
}

// FilterMetrics applies just the WHERE predicate to an already-fetched
// slice of ResourceMetrics, for follow-subscription delta re-evaluation.
func FilterMetrics(metrics []*metricspb.ResourceMetrics, expr *sqlquery.WhereExpr) []*metricspb.ResourceMetrics {
	out := make([]*metricspb.ResourceMetrics, 0, len(metrics))
	for _, rm := range metrics {
		if resourceMetricsMatches(rm, expr) {
			out = append(out, rm)
		}
	}
	return out
}

func resourceMetricsMatches(rm *metricspb.ResourceMetrics, expr *sqlquery.WhereExpr) bool {
	if expr == nil {
		return true
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if metricDataMatches(m, rm.Resource, expr, metricTypeName(m)) {
				return true
			}
		}
	}
	return false
}

func metricDataMatches(m *metricspb.Metric, resource *resourcepb.Resource, expr *sqlquery.WhereExpr, metricType string) bool {
	switch d := m.Data.(type) {
	case *metricspb.Metric_Gauge:
		for _, dp := range d.Gauge.DataPoints {
			if evalWhere(numberDataPointResolver(dp, m, resource, metricType), expr) {
				return true
			}
		}
	case *metricspb.Metric_Sum:
		for _, dp := range d.Sum.DataPoints {
			if evalWhere(numberDataPointResolver(dp, m, resource, metricType), expr) {
				return true
			}
		}
	case *metricspb.Metric_Histogram:
		for _, dp := range d.Histogram.DataPoints {
			if evalWhere(histogramResolver(dp, m, resource, metricType), expr) {
				return true
			}
		}
	case *metricspb.Metric_ExponentialHistogram:
		for _, dp := range d.ExponentialHistogram.DataPoints {
			if evalWhere(expHistogramResolver(dp, m, resource, metricType), expr) {
				return true
			}
		}
	case *metricspb.Metric_Summary:
		for _, dp := range d.Summary.DataPoints {
			if evalWhere(summaryResolver(dp, m, resource, metricType), expr) {
				return true
			}
		}
	}
	return false
}

func resourceMetricsSortValue(rm *metricspb.ResourceMetrics, column string) SortValue {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sv, ok := firstDataPointSortValue(m, rm.Resource, column); ok {
				return sv
			}
		}
	}
	return SortValue{Kind: SortNull}
}

func firstDataPointSortValue(m *metricspb.Metric, resource *resourcepb.Resource, column string) (SortValue, bool) {
	col := sqlquery.NamedColumn(column)
	metricType := metricTypeName(m)
	switch d := m.Data.(type) {
	case *metricspb.Metric_Gauge:
		for _, dp := range d.Gauge.DataPoints {
			return fieldToSort(resolveNumberDataPointColumn(dp, m, resource, col, metricType)), true
		}
	case *metricspb.Metric_Sum:
		for _, dp := range d.Sum.DataPoints {
			return fieldToSort(resolveNumberDataPointColumn(dp, m, resource, col, metricType)), true
		}
	}
	return SortValue{}, false
}

func numberDataPointResolver(dp *metricspb.NumberDataPoint, m *metricspb.Metric, resource *resourcepb.Resource, metricType string) resolver {
	return func(col sqlquery.ColumnRef) FieldValue {
		return resolveNumberDataPointColumn(dp, m, resource, col, metricType)
	}
}

func resolveNumberDataPointColumn(dp *metricspb.NumberDataPoint, m *metricspb.Metric, resource *resourcepb.Resource, col sqlquery.ColumnRef, metricType string) FieldValue {
	if col.Bracket {
		return resolveDataPointBracket(dp.Attributes, resource, col)
	}
	switch col.Named {
	case "timestamp":
		return NumberField(float64(dp.TimeUnixNano))
	case "metric_name":
		return StringField(m.Name)
	case "type":
		return StringField(metricType)
	case "value":
		switch v := dp.Value.(type) {
		case *metricspb.NumberDataPoint_AsDouble:
			return NumberField(v.AsDouble)
		case *metricspb.NumberDataPoint_AsInt:
			return NumberField(float64(v.AsInt))
		default:
			return NullField()
		}
	case "count", "sum":
		return NullField()
	case "service_name":
		return StringField(GetServiceName(resource))
	default:
		return NullField()
	}
}

func histogramResolver(dp *metricspb.HistogramDataPoint, m *metricspb.Metric, resource *resourcepb.Resource, metricType string) resolver {
	return func(col sqlquery.ColumnRef) FieldValue {
		if col.Bracket {
			return resolveDataPointBracket(dp.Attributes, resource, col)
		}
		switch col.Named {
		case "timestamp":
			return NumberField(float64(dp.TimeUnixNano))
		case "metric_name":
			return StringField(m.Name)
		case "type":
			return StringField(metricType)
		case "value":
			return NullField()
		case "count":
			return NumberField(float64(dp.Count))
		case "sum":
			if dp.Sum == nil {
				return NullField()
			}
			return NumberField(*dp.Sum)
		case "service_name":
			return StringField(GetServiceName(resource))
		default:
			return NullField()
		}
	}
}

func expHistogramResolver(dp *metricspb.ExponentialHistogramDataPoint, m *metricspb.Metric, resource *resourcepb.Resource, metricType string) resolver {
	return func(col sqlquery.ColumnRef) FieldValue {
		if col.Bracket {
			return resolveDataPointBracket(dp.Attributes, resource, col)
		}
		switch col.Named {
		case "timestamp":
			return NumberField(float64(dp.TimeUnixNano))
		case "metric_name":
			return StringField(m.Name)
		case "type":
			return StringField(metricType)
		case "value":
			return NullField()
		case "count":
			return NumberField(float64(dp.Count))
		case "sum":
			if dp.Sum == nil {
				return NullField()
			}
			return NumberField(*dp.Sum)
		case "service_name":
			return StringField(GetServiceName(resource))
		default:
			return NullField()
		}
	}
}

func summaryResolver(dp *metricspb.SummaryDataPoint, m *metricspb.Metric, resource *resourcepb.Resource, metricType string) resolver {
	return func(col sqlquery.ColumnRef) FieldValue {
		if col.Bracket {
			return resolveDataPointBracket(nil, resource, col)
		}
		switch col.Named {
		case "timestamp":
			return NumberField(float64(dp.TimeUnixNano))
		case "metric_name":
			return StringField(m.Name)
		case "type":
			return StringField(metricType)
		case "value":
			return NullField()
		case "count":
			return NumberField(float64(dp.Count))
		case "sum":
			return NumberField(dp.Sum)
		case "service_name":
			return StringField(GetServiceName(resource))
		default:
			return NullField()
		}
	}
}

func resolveDataPointBracket(attrs []*commonpb.KeyValue, resource *resourcepb.Resource, col sqlquery.ColumnRef) FieldValue {
	switch col.Base {
	case "attributes":
		return LookupAttribute(attrs, col.Key)
	case "resource":
		return LookupAttribute(resourceAttrs(resource), col.Key)
	default:
		return NullField()
	}
}
