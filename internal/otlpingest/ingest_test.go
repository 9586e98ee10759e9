package otlpingest

import (
	"context"
	"testing"

	tracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	trace2pb "go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"

	"github.com/otelbridge/otel-bridge/internal/store"
)

func TestTraceServiceExportInsertsIntoStore(t *testing.T) {
	st := store.New(100)
	svc := &traceService{log: zap.NewNop(), st: st}

	req := &tracepb.ExportTraceServiceRequest{
		ResourceSpans: []*trace2pb.ResourceSpans{{
			Resource: &resourcepb.Resource{},
			ScopeSpans: []*trace2pb.ScopeSpans{{
				Spans: []*trace2pb.Span{{
					TraceId:           []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
					SpanId:            []byte{1, 2, 3, 4, 5, 6, 7, 8},
					Name:              "GET /",
					StartTimeUnixNano: 1000,
					EndTimeUnixNano:   2000,
				}},
			}},
		}},
	}

	resp, err := svc.Export(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil {
		t.Fatalf("expected non-nil response")
	}
	if st.TraceCount() != 1 {
		t.Fatalf("expected 1 trace group, got %d", st.TraceCount())
	}
}
