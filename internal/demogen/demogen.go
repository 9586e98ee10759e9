// Package demogen builds a small synthetic multi-signal dataset (traces,
// logs, metrics) and inserts it directly into the store, the same
// buildBatch shape the teacher's telemetry workers use to fabricate OTLP
// batches, but feeding the local store instead of pushing to a remote
// collector endpoint.
package demogen

import (
	"fmt"
	"math/rand"
	"time"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/otelbridge/otel-bridge/internal/otlp"
	"github.com/otelbridge/otel-bridge/internal/store"
	"github.com/otelbridge/otel-bridge/internal/util"
)

// Config controls how much synthetic data Generate produces.
type Config struct {
	Services          int
	TracesPerService  int
	SpansPerTrace     int
	LogsPerService    int
	MetricsPerService int
}

// DefaultConfig mirrors the teacher's default resources-per-batch/spans-
// per-resource scale, small enough to populate a demo TUI session quickly.
func DefaultConfig() Config {
	return Config{
		Services:          3,
		TracesPerService:  5,
		SpansPerTrace:     4,
		LogsPerService:    8,
		MetricsPerService: 3,
	}
}

var serviceNames = []string{"checkout", "inventory", "billing", "frontend", "auth"}

var spanNames = []string{
	"http_request", "database_query", "cache_get", "service_call",
	"file_read", "authentication", "message_publish", "queue_consume",
}

var logBodies = []string{
	"request completed", "connection established", "retrying operation",
	"cache miss, falling back to store", "background job finished",
}

var severities = []string{"DEBUG", "INFO", "WARN", "ERROR"}

var metricNames = []string{"http.server.duration", "queue.depth", "cpu.utilization"}

func newScope() *commonpb.InstrumentationScope {
	return otlp.NewScope("otel-bridge-demo", "1.0.0")
}

func stringValue(s string) *commonpb.AnyValue {
	return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: s}}
}

func intValue(n int64) *commonpb.AnyValue {
	return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: n}}
}

// Generate fabricates cfg's worth of traces, logs, and metrics and inserts
// them directly into st, returning the counts inserted per signal.
func Generate(st *store.Store, cfg Config) (traces, logs, metrics int) {
	now := uint64(time.Now().UnixNano())

	for _, service := range serviceSubset(cfg.Services) {
		resource := otlp.NewResource(service, otlp.NewInstanceID())

		var spansBatch []*tracepb.ResourceSpans
		for t := 0; t < cfg.TracesPerService; t++ {
			spansBatch = append(spansBatch, buildTrace(resource, cfg.SpansPerTrace, now))
			traces++
		}
		if len(spansBatch) > 0 {
			st.InsertTraces(spansBatch)
		}

		if cfg.LogsPerService > 0 {
			rl := buildLogs(resource, cfg.LogsPerService, now)
			st.InsertLogs([]*logspb.ResourceLogs{rl})
			logs += cfg.LogsPerService
		}

		if cfg.MetricsPerService > 0 {
			rm := buildMetrics(resource, cfg.MetricsPerService, now)
			st.InsertMetrics([]*metricspb.ResourceMetrics{rm})
			metrics += cfg.MetricsPerService
		}
	}

	return traces, logs, metrics
}

func serviceSubset(n int) []string {
	if n <= 0 || n > len(serviceNames) {
		n = len(serviceNames)
	}
	return serviceNames[:n]
}

func buildTrace(resource *resourcepb.Resource, spanCount int, now uint64) *tracepb.ResourceSpans {
	traceID := util.GenOtelId(16)
	scope := newScope()
	spans := make([]*tracepb.Span, 0, spanCount)

	var parentID []byte
	for j := 0; j < spanCount; j++ {
		start := now + uint64(j)*10_000_000
		end := start + uint64(5_000_000+rand.Intn(20_000_000))
		spanID := util.GenOtelId(8)

		span := &tracepb.Span{
			TraceId:           traceID,
			SpanId:            spanID,
			ParentSpanId:      parentID,
			Name:              spanNames[rand.Intn(len(spanNames))],
			Kind:              tracepb.Span_SPAN_KIND_SERVER,
			StartTimeUnixNano: start,
			EndTimeUnixNano:   end,
			Attributes: []*commonpb.KeyValue{
				{Key: "demo.index", Value: intValue(int64(j))},
			},
		}
		spans = append(spans, span)
		parentID = spanID
	}

	return &tracepb.ResourceSpans{
		Resource: resource,
		ScopeSpans: []*tracepb.ScopeSpans{
			{Scope: scope, Spans: spans},
		},
	}
}

func buildLogs(resource *resourcepb.Resource, count int, now uint64) *logspb.ResourceLogs {
	scope := newScope()
	records := make([]*logspb.LogRecord, 0, count)
	for i := 0; i < count; i++ {
		sev := severities[rand.Intn(len(severities))]
		n, _ := store.SeverityTextToNumber(sev)
		records = append(records, &logspb.LogRecord{
			TimeUnixNano:   now + uint64(i)*1_000_000,
			SeverityText:   sev,
			SeverityNumber: logspb.SeverityNumber(n),
			Body:           stringValue(fmt.Sprintf("%s (demo record %d)", logBodies[i%len(logBodies)], i)),
			Attributes: []*commonpb.KeyValue{
				{Key: "demo.index", Value: intValue(int64(i))},
			},
		})
	}
	return &logspb.ResourceLogs{
		Resource:  resource,
		ScopeLogs: []*logspb.ScopeLogs{{Scope: scope, LogRecords: records}},
	}
}

func buildMetrics(resource *resourcepb.Resource, count int, now uint64) *metricspb.ResourceMetrics {
	scope := newScope()
	ms := make([]*metricspb.Metric, 0, count)
	for i := 0; i < count; i++ {
		name := metricNames[i%len(metricNames)]
		ms = append(ms, &metricspb.Metric{
			Name: name,
			Data: &metricspb.Metric_Gauge{
				Gauge: &metricspb.Gauge{
					DataPoints: []*metricspb.NumberDataPoint{
						{
							TimeUnixNano: now + uint64(i)*1_000_000,
							Value:        &metricspb.NumberDataPoint_AsDouble{AsDouble: float64(i) * 1.5},
							Attributes: []*commonpb.KeyValue{
								{Key: "demo.index", Value: intValue(int64(i))},
							},
						},
					},
				},
			},
		})
	}
	return &metricspb.ResourceMetrics{
		Resource:     resource,
		ScopeMetrics: []*metricspb.ScopeMetrics{{Scope: scope, Metrics: ms}},
	}
}
