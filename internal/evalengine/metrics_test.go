package evalengine

import (
	"testing"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"

	"github.com/otelbridge/otel-bridge/internal/store"
)

func makeGaugeMetric(serviceName, metricName string, value float64, timeNs uint64, attrs []*commonpb.KeyValue) *metricspb.ResourceMetrics {
	return &metricspb.ResourceMetrics{
		Resource: traceResource(serviceName),
		ScopeMetrics: []*metricspb.ScopeMetrics{{
			Metrics: []*metricspb.Metric{{
				Name: metricName,
				Data: &metricspb.Metric_Gauge{Gauge: &metricspb.Gauge{
					DataPoints: []*metricspb.NumberDataPoint{{
						Attributes:   attrs,
						TimeUnixNano: timeNs,
						Value:        &metricspb.NumberDataPoint_AsDouble{AsDouble: value},
					}},
				}},
			}},
		}},
	}
}

func setupMetricStore() *store.Store {
	s := store.New(100)
	s.InsertMetrics([]*metricspb.ResourceMetrics{
		makeGaugeMetric("frontend", "http.duration", 150.0, 1000, nil),
		makeGaugeMetric("backend", "db.latency", 50.0, 2000, []*commonpb.KeyValue{kvString("db", "postgres")}),
		makeGaugeMetric("frontend", "http.duration", 200.0, 3000, nil),
		makeGaugeMetric("backend", "cpu.usage", 75.0, 4000, nil),
	})
	return s
}

func TestEvalMetricsNoFilter(t *testing.T) {
	s := setupMetricStore()
	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics"))
	if len(result) != 4 {
		t.Fatalf("expected 4, got %d", len(result))
	}
}

func TestEvalMetricsFilterByMetricName(t *testing.T) {
	s := setupMetricStore()
	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics WHERE metric_name = 'http.duration'"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalMetricsFilterByServiceName(t *testing.T) {
	s := setupMetricStore()
	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics WHERE service_name = 'backend'"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalMetricsFilterByValue(t *testing.T) {
	s := setupMetricStore()
	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics WHERE value > 100"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalMetricsFilterByType(t *testing.T) {
	s := setupMetricStore()
	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics WHERE type = 'gauge'"))
	if len(result) != 4 {
		t.Fatalf("expected 4, got %d", len(result))
	}
}

func TestEvalMetricsFilterByAttribute(t *testing.T) {
	s := setupMetricStore()
	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics WHERE attributes['db'] = 'postgres'"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}

func TestEvalMetricsWithLimit(t *testing.T) {
	s := setupMetricStore()
	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics LIMIT 2"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalMetricsFilterAnd(t *testing.T) {
	s := setupMetricStore()
	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics WHERE service_name = 'frontend' AND value > 100"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalMetricsHistogram(t *testing.T) {
	s := store.New(100)
	sum := 5000.0
	s.InsertMetrics([]*metricspb.ResourceMetrics{{
		Resource: traceResource("svc"),
		ScopeMetrics: []*metricspb.ScopeMetrics{{
			Metrics: []*metricspb.Metric{{
				Name: "request.duration",
				Data: &metricspb.Metric_Histogram{Histogram: &metricspb.Histogram{
					DataPoints: []*metricspb.HistogramDataPoint{{
						TimeUnixNano: 1000,
						Count:        100,
						Sum:          &sum,
					}},
				}},
			}},
		}},
	}})

	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics WHERE type = 'histogram'"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}

	result = EvalMetrics(s, mustParse(t, "SELECT * FROM metrics WHERE count = 100"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}

func TestEvalMetricsNameLike(t *testing.T) {
	s := setupMetricStore()
	result := EvalMetrics(s, mustParse(t, "SELECT * FROM metrics WHERE metric_name LIKE 'http%'"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}
