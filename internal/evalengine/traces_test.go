package evalengine

import (
	"testing"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/otelbridge/otel-bridge/internal/sqlquery"
	"github.com/otelbridge/otel-bridge/internal/store"
)

func mustParse(t *testing.T, sql string) *sqlquery.Query {
	t.Helper()
	q, err := sqlquery.Parse(sql)
	if err != nil {
		t.Fatalf("parse %q: %v", sql, err)
	}
	return q
}

func kvString(key, value string) *commonpb.KeyValue {
	return &commonpb.KeyValue{Key: key, Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: value}}}
}

func kvInt(key string, value int64) *commonpb.KeyValue {
	return &commonpb.KeyValue{Key: key, Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: value}}}
}

func traceResource(serviceName string) *resourcepb.Resource {
	return &resourcepb.Resource{Attributes: []*commonpb.KeyValue{kvString("service.name", serviceName)}}
}

func makeSpan(traceID, spanID []byte, name string, start, end uint64, attrs []*commonpb.KeyValue) *tracepb.Span {
	return &tracepb.Span{
		TraceId:           traceID,
		SpanId:            spanID,
		Name:              name,
		Kind:              2,
		StartTimeUnixNano: start,
		EndTimeUnixNano:   end,
		Attributes:        attrs,
		Status:            &tracepb.Status{Code: 0},
	}
}

func makeResourceSpans(serviceName string, spans ...*tracepb.Span) *tracepb.ResourceSpans {
	return &tracepb.ResourceSpans{
		Resource:   traceResource(serviceName),
		ScopeSpans: []*tracepb.ScopeSpans{{Spans: spans}},
	}
}

func repeatByte(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func setupTraceStore() *store.Store {
	s := store.New(100)
	s.InsertTraces([]*tracepb.ResourceSpans{
		makeResourceSpans("frontend", makeSpan(repeatByte(1, 16), []byte{0, 0, 0, 0, 0, 0, 0, 1}, "GET /api/users", 1000, 2000,
			[]*commonpb.KeyValue{kvString("http.method", "GET"), kvInt("http.status_code", 200)})),
		makeResourceSpans("backend", makeSpan(repeatByte(2, 16), []byte{0, 0, 0, 0, 0, 0, 0, 2}, "POST /api/orders", 2000, 5000,
			[]*commonpb.KeyValue{kvString("http.method", "POST"), kvInt("http.status_code", 500)})),
		makeResourceSpans("frontend", makeSpan(repeatByte(3, 16), []byte{0, 0, 0, 0, 0, 0, 0, 3}, "GET /health", 3000, 3100,
			[]*commonpb.KeyValue{kvString("http.method", "GET")})),
	})
	return s
}

func TestEvalTracesNoFilter(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces"))
	if len(result) != 3 {
		t.Fatalf("expected 3, got %d", len(result))
	}
}

func TestEvalTracesFilterByServiceName(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces WHERE service_name = 'frontend'"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalTracesFilterBySpanNameLike(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces WHERE span_name LIKE '%api%'"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalTracesFilterByAttribute(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces WHERE attributes['http.method'] = 'POST'"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}

func TestEvalTracesFilterByDuration(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces WHERE duration_ns > 1000"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}

func TestEvalTracesFilterAnd(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces WHERE service_name = 'frontend' AND span_name LIKE '%api%'"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}

func TestEvalTracesWithLimit(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces LIMIT 2"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalTracesFilterInList(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces WHERE service_name IN ('frontend', 'backend')"))
	if len(result) != 3 {
		t.Fatalf("expected 3, got %d", len(result))
	}
}

func TestEvalTracesFilterRegex(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces WHERE span_name ~ '^GET.*'"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalTracesFilterIsNull(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces WHERE parent_span_id IS NULL"))
	if len(result) != 3 {
		t.Fatalf("expected 3, got %d", len(result))
	}
}

func TestEvalTracesFilterNumericAttribute(t *testing.T) {
	s := setupTraceStore()
	result := EvalTraces(s, mustParse(t, "SELECT * FROM traces WHERE attributes['http.status_code'] >= 500"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}
