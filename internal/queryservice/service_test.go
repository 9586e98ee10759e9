package queryservice

import (
	"context"
	"testing"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"

	v1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/store"
)

func serviceResource(name string) *resourcepb.Resource {
	return &resourcepb.Resource{Attributes: []*commonpb.KeyValue{{
		Key:   "service.name",
		Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: name}},
	}}}
}

func makeSpanRS(service, name string, traceID byte, start, end uint64) *tracepb.ResourceSpans {
	return &tracepb.ResourceSpans{
		Resource: serviceResource(service),
		ScopeSpans: []*tracepb.ScopeSpans{{
			Spans: []*tracepb.Span{{
				TraceId:           []byte{traceID, traceID, traceID, traceID, traceID, traceID, traceID, traceID, traceID, traceID, traceID, traceID, traceID, traceID, traceID, traceID},
				SpanId:            []byte{1, 2, 3, 4, 5, 6, 7, 8},
				Name:              name,
				StartTimeUnixNano: start,
				EndTimeUnixNano:   end,
			}},
		}},
	}
}

func TestSqlQueryFilterByServiceName(t *testing.T) {
	st := store.New(100)
	st.InsertTraces([]*tracepb.ResourceSpans{
		makeSpanRS("frontend", "GET /api/users", 1, 1000, 2000),
		makeSpanRS("backend", "POST /orders", 2, 2000, 3000),
	})
	svc := New(st, zap.NewNop())

	resp, err := svc.SqlQuery(context.Background(), &v1.SqlQueryRequest{Sql: "SELECT * FROM traces WHERE service_name = 'frontend'"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(resp.Rows))
	}
}

func TestSqlQueryTracesPopulatesTraceGroups(t *testing.T) {
	st := store.New(100)
	st.InsertTraces([]*tracepb.ResourceSpans{
		makeSpanRS("frontend", "GET /api/users", 1, 1000, 2000),
		makeSpanRS("backend", "POST /orders", 2, 2000, 3000),
	})
	svc := New(st, zap.NewNop())

	resp, err := svc.SqlQuery(context.Background(), &v1.SqlQueryRequest{Sql: "SELECT * FROM traces"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.Rows))
	}
	if len(resp.TraceGroups) != 2 {
		t.Fatalf("expected 2 trace groups, got %d", len(resp.TraceGroups))
	}
	for _, g := range resp.TraceGroups {
		if len(g.Rows) != 1 {
			t.Fatalf("expected 1 row per trace group, got %d", len(g.Rows))
		}
		if len(g.TraceId) == 0 {
			t.Fatalf("expected trace group to carry a trace id")
		}
	}
}

func TestSqlQueryLogsLeavesTraceGroupsNil(t *testing.T) {
	st := store.New(100)
	svc := New(st, zap.NewNop())

	resp, err := svc.SqlQuery(context.Background(), &v1.SqlQueryRequest{Sql: "SELECT * FROM logs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TraceGroups != nil {
		t.Fatalf("expected nil trace groups for a logs query, got %d", len(resp.TraceGroups))
	}
}

func TestSqlQueryUnknownTable(t *testing.T) {
	st := store.New(100)
	svc := New(st, zap.NewNop())
	_, err := svc.SqlQuery(context.Background(), &v1.SqlQueryRequest{Sql: "SELECT * FROM widgets"})
	if err == nil {
		t.Fatalf("expected error for unknown table")
	}
}

func TestQueryTracesLegacyShapedFilter(t *testing.T) {
	st := store.New(100)
	st.InsertTraces([]*tracepb.ResourceSpans{
		makeSpanRS("frontend", "GET /api/users", 1, 1000, 2000),
		makeSpanRS("backend", "POST /orders", 2, 2000, 3000),
	})
	svc := New(st, zap.NewNop())

	resp, err := svc.QueryTraces(context.Background(), &v1.QueryTracesRequest{Service: "backend"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.ResourceSpans) != 1 {
		t.Fatalf("expected 1 resource spans, got %d", len(resp.ResourceSpans))
	}
}

func TestClearTraces(t *testing.T) {
	st := store.New(100)
	st.InsertTraces([]*tracepb.ResourceSpans{makeSpanRS("frontend", "GET /", 1, 1000, 2000)})
	svc := New(st, zap.NewNop())

	if _, err := svc.ClearTraces(context.Background(), &v1.ClearTracesRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.TraceCount() != 0 {
		t.Fatalf("expected store to be empty after clear, got %d", st.TraceCount())
	}
}

func TestNormalizeLimitDefaultsOnZeroOrNegative(t *testing.T) {
	if got := normalizeLimit(0); got != defaultLimit {
		t.Fatalf("expected default limit %d, got %d", defaultLimit, got)
	}
	if got := normalizeLimit(-5); got != defaultLimit {
		t.Fatalf("expected default limit %d, got %d", defaultLimit, got)
	}
	if got := normalizeLimit(7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}
