package store

import (
	"testing"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

func makeResource(serviceName string) *resourcepb.Resource {
	return &resourcepb.Resource{
		Attributes: []*commonpb.KeyValue{
			{Key: "service.name", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: serviceName}}},
		},
	}
}

func makeResourceSpansFull(serviceName string, traceID []byte, start, end uint64) *tracepb.ResourceSpans {
	return &tracepb.ResourceSpans{
		Resource: makeResource(serviceName),
		ScopeSpans: []*tracepb.ScopeSpans{{
			Spans: []*tracepb.Span{{
				TraceId:           traceID,
				SpanId:            []byte{0, 0, 0, 0, 0, 0, 0, 1},
				Name:              "test-span",
				StartTimeUnixNano: start,
				EndTimeUnixNano:   end,
			}},
		}},
	}
}

func makeResourceSpans(serviceName string, traceID []byte) *tracepb.ResourceSpans {
	return makeResourceSpansFull(serviceName, traceID, 0, 0)
}

func makeResourceLogsFull(serviceName, severity string, ts uint64) *logspb.ResourceLogs {
	sevNum, _ := SeverityTextToNumber(severity)
	return &logspb.ResourceLogs{
		Resource: makeResource(serviceName),
		ScopeLogs: []*logspb.ScopeLogs{{
			LogRecords: []*logspb.LogRecord{{
				TimeUnixNano:   ts,
				SeverityNumber: logspb.SeverityNumber(sevNum),
				SeverityText:   severity,
			}},
		}},
	}
}

func makeResourceLogs(serviceName, severity string) *logspb.ResourceLogs {
	return makeResourceLogsFull(serviceName, severity, 0)
}

func makeResourceMetrics(serviceName, metricName string) *metricspb.ResourceMetrics {
	return &metricspb.ResourceMetrics{
		Resource: makeResource(serviceName),
		ScopeMetrics: []*metricspb.ScopeMetrics{{
			Metrics: []*metricspb.Metric{{Name: metricName}},
		}},
	}
}

func makeResourceMetricsWithTS(serviceName, metricName string, ts uint64) *metricspb.ResourceMetrics {
	return &metricspb.ResourceMetrics{
		Resource: makeResource(serviceName),
		ScopeMetrics: []*metricspb.ScopeMetrics{{
			Metrics: []*metricspb.Metric{{
				Name: metricName,
				Data: &metricspb.Metric_Gauge{Gauge: &metricspb.Gauge{
					DataPoints: []*metricspb.NumberDataPoint{{TimeUnixNano: ts}},
				}},
			}},
		}},
	}
}

func svcName(rs *tracepb.ResourceSpans) string {
	for _, kv := range rs.Resource.Attributes {
		if kv.Key == "service.name" {
			return kv.Value.GetStringValue()
		}
	}
	return ""
}

func TestInsertAndAllTraces(t *testing.T) {
	s := New(100)
	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpans("svc-a", bytesOf(1))})
	if got := len(s.AllTraces()); got != 1 {
		t.Fatalf("trace count = %d, want 1", got)
	}
	if got := len(s.AllTraces()[0].ResourceSpans); got != 1 {
		t.Fatalf("resource spans in group = %d, want 1", got)
	}
}

func TestInsertAndAllLogs(t *testing.T) {
	s := New(100)
	s.InsertLogs([]*logspb.ResourceLogs{makeResourceLogs("svc-a", "INFO")})
	if got := len(s.AllLogs()); got != 1 {
		t.Fatalf("log count = %d, want 1", got)
	}
}

func TestInsertAndAllMetrics(t *testing.T) {
	s := New(100)
	s.InsertMetrics([]*metricspb.ResourceMetrics{makeResourceMetrics("svc-a", "http.duration")})
	if got := len(s.AllMetrics()); got != 1 {
		t.Fatalf("metric count = %d, want 1", got)
	}
}

func bytesOf(b byte) []byte {
	out := make([]byte, 16)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestEvictionTraces(t *testing.T) {
	s := New(3)
	for i := byte(0); i < 5; i++ {
		s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpans(svcLabel(i), bytesOf(i))})
	}
	groups := s.AllTraces()
	if len(groups) != 3 {
		t.Fatalf("trace count = %d, want 3", len(groups))
	}
	want := []string{"svc-2", "svc-3", "svc-4"}
	for i, g := range groups {
		if got := svcName(g.ResourceSpans[0]); got != want[i] {
			t.Fatalf("group %d service = %q, want %q", i, got, want[i])
		}
	}
}

func svcLabel(i byte) string {
	return "svc-" + string(rune('0'+i))
}

func TestEvictionTracesByTraceID(t *testing.T) {
	s := New(2)
	s.InsertTraces([]*tracepb.ResourceSpans{
		makeResourceSpansFull("svc-a", bytesOf(1), 100, 200),
		makeResourceSpansFull("svc-b", bytesOf(1), 200, 300),
	})
	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpansFull("svc-c", bytesOf(2), 300, 400)})
	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpansFull("svc-d", bytesOf(3), 400, 500)})

	groups := s.AllTraces()
	if len(groups) != 2 {
		t.Fatalf("trace count = %d, want 2", len(groups))
	}
	want := []string{"svc-c", "svc-d"}
	for i, g := range groups {
		if got := svcName(g.ResourceSpans[0]); got != want[i] {
			t.Fatalf("group %d service = %q, want %q", i, got, want[i])
		}
	}
}

func TestEvictionLogs(t *testing.T) {
	s := New(3)
	for i := byte(0); i < 5; i++ {
		s.InsertLogs([]*logspb.ResourceLogs{makeResourceLogs(svcLabel(i), "INFO")})
	}
	if got := len(s.AllLogs()); got != 3 {
		t.Fatalf("log count = %d, want 3", got)
	}
}

func TestEvictionMetrics(t *testing.T) {
	s := New(3)
	for i := byte(0); i < 5; i++ {
		s.InsertMetrics([]*metricspb.ResourceMetrics{makeResourceMetrics(svcLabel(i), "cpu")})
	}
	if got := len(s.AllMetrics()); got != 3 {
		t.Fatalf("metric count = %d, want 3", got)
	}
}

func TestEventNotification(t *testing.T) {
	s := New(100)
	sub := s.Subscribe()
	defer sub.Close()

	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpans("svc", bytesOf(1))})
	if got := <-sub.Events; got != TracesAdded {
		t.Fatalf("event = %v, want TracesAdded", got)
	}

	s.InsertLogs([]*logspb.ResourceLogs{makeResourceLogs("svc", "INFO")})
	if got := <-sub.Events; got != LogsAdded {
		t.Fatalf("event = %v, want LogsAdded", got)
	}

	s.InsertMetrics([]*metricspb.ResourceMetrics{makeResourceMetrics("svc", "cpu")})
	if got := <-sub.Events; got != MetricsAdded {
		t.Fatalf("event = %v, want MetricsAdded", got)
	}
}

func TestInsertTracesSortedByTimestamp(t *testing.T) {
	s := New(100)
	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpansFull("svc-300", bytesOf(0), 300, 400)})
	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpansFull("svc-100", bytesOf(0), 100, 200)})
	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpansFull("svc-200", bytesOf(0), 200, 300)})

	groups := s.AllTraces()
	if len(groups) != 1 {
		t.Fatalf("trace group count = %d, want 1", len(groups))
	}
	want := []string{"svc-100", "svc-200", "svc-300"}
	for i, rs := range groups[0].ResourceSpans {
		if got := svcName(rs); got != want[i] {
			t.Fatalf("resource span %d service = %q, want %q", i, got, want[i])
		}
	}
}

func TestInsertLogsSortedByTimestamp(t *testing.T) {
	s := New(100)
	s.InsertLogs([]*logspb.ResourceLogs{makeResourceLogsFull("svc-300", "INFO", 300)})
	s.InsertLogs([]*logspb.ResourceLogs{makeResourceLogsFull("svc-100", "INFO", 100)})
	s.InsertLogs([]*logspb.ResourceLogs{makeResourceLogsFull("svc-200", "INFO", 200)})
	if got := len(s.AllLogs()); got != 3 {
		t.Fatalf("log count = %d, want 3", got)
	}
}

func TestTraceVersionTracking(t *testing.T) {
	s := New(100)
	if got := s.CurrentTraceVersion(); got != 0 {
		t.Fatalf("version = %d, want 0", got)
	}

	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpansFull("svc-a", bytesOf(1), 100, 200)})
	if got := s.CurrentTraceVersion(); got != 1 {
		t.Fatalf("version = %d, want 1", got)
	}

	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpansFull("svc-b", bytesOf(1), 200, 300)})
	if got := s.CurrentTraceVersion(); got != 2 {
		t.Fatalf("version = %d, want 2", got)
	}

	s.InsertTraces([]*tracepb.ResourceSpans{makeResourceSpansFull("svc-c", bytesOf(2), 300, 400)})
	if got := s.CurrentTraceVersion(); got != 3 {
		t.Fatalf("version = %d, want 3", got)
	}

	if got := len(s.QueryTracesSinceVersion(1)); got != 2 {
		t.Fatalf("since(1) = %d, want 2", got)
	}
	if got := len(s.QueryTracesSinceVersion(2)); got != 1 {
		t.Fatalf("since(2) = %d, want 1", got)
	}
	if got := len(s.QueryTracesSinceVersion(3)); got != 0 {
		t.Fatalf("since(3) = %d, want 0", got)
	}
}

func TestQueryLogsSince(t *testing.T) {
	s := New(100)
	s.InsertLogs([]*logspb.ResourceLogs{
		makeResourceLogsFull("svc", "INFO", 100),
		makeResourceLogsFull("svc", "INFO", 200),
		makeResourceLogsFull("svc", "INFO", 300),
	})
	if got := len(s.QueryLogsSince(200)); got != 2 {
		t.Fatalf("since(200) = %d, want 2", got)
	}
	if got := len(s.QueryLogsSince(301)); got != 0 {
		t.Fatalf("since(301) = %d, want 0", got)
	}
}

func TestQueryMetricsSince(t *testing.T) {
	s := New(100)
	s.InsertMetrics([]*metricspb.ResourceMetrics{
		makeResourceMetricsWithTS("svc", "cpu", 100),
		makeResourceMetricsWithTS("svc", "cpu", 200),
		makeResourceMetricsWithTS("svc", "cpu", 300),
	})
	if got := len(s.QueryMetricsSince(200)); got != 2 {
		t.Fatalf("since(200) = %d, want 2", got)
	}
	if got := len(s.QueryMetricsSince(301)); got != 0 {
		t.Fatalf("since(301) = %d, want 0", got)
	}
}

func TestTraceSplitOnInsert(t *testing.T) {
	s := New(100)
	rs := &tracepb.ResourceSpans{
		Resource: makeResource("svc"),
		ScopeSpans: []*tracepb.ScopeSpans{{
			Spans: []*tracepb.Span{
				{TraceId: bytesOf(1), SpanId: []byte{0, 0, 0, 0, 0, 0, 0, 1}, StartTimeUnixNano: 100},
				{TraceId: bytesOf(2), SpanId: []byte{0, 0, 0, 0, 0, 0, 0, 2}, StartTimeUnixNano: 200},
			},
		}},
	}
	s.InsertTraces([]*tracepb.ResourceSpans{rs})
	groups := s.AllTraces()
	if len(groups) != 2 {
		t.Fatalf("group count = %d, want 2", len(groups))
	}
	for _, g := range groups {
		if len(g.ResourceSpans) != 1 || len(g.ResourceSpans[0].ScopeSpans[0].Spans) != 1 {
			t.Fatalf("expected exactly one span per split group")
		}
	}
}
