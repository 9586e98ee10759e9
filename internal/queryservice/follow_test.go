package queryservice

import (
	"context"
	"testing"
	"time"

	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc/metadata"

	v1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/store"
)

// fakeFollowSqlStream satisfies v1.QueryService_FollowSqlServer without a
// network transport, so the delta-bookmark logic can be exercised directly.
type fakeFollowSqlStream struct {
	ctx  context.Context
	recv chan *v1.FollowSqlResponse
}

func (f *fakeFollowSqlStream) Send(m *v1.FollowSqlResponse) error {
	f.recv <- m
	return nil
}
func (f *fakeFollowSqlStream) SetHeader(metadata.MD) error  { return nil }
func (f *fakeFollowSqlStream) SendHeader(metadata.MD) error { return nil }
func (f *fakeFollowSqlStream) SetTrailer(metadata.MD)       {}
func (f *fakeFollowSqlStream) Context() context.Context     { return f.ctx }
func (f *fakeFollowSqlStream) SendMsg(m interface{}) error   { return nil }
func (f *fakeFollowSqlStream) RecvMsg(m interface{}) error   { return nil }

func TestFollowSqlSendsInitialThenDelta(t *testing.T) {
	st := store.New(100)
	st.InsertTraces([]*tracepb.ResourceSpans{makeSpanRS("frontend", "GET /", 1, 1000, 2000)})
	svc := New(st, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := &fakeFollowSqlStream{ctx: ctx, recv: make(chan *v1.FollowSqlResponse, 4)}

	done := make(chan error, 1)
	go func() {
		done <- svc.FollowSql(&v1.FollowSqlRequest{Sql: "SELECT * FROM traces"}, stream)
	}()

	select {
	case initial := <-stream.recv:
		if initial.IsDelta {
			t.Fatalf("expected initial frame to not be a delta")
		}
		if len(initial.Rows) != 1 {
			t.Fatalf("expected 1 initial row, got %d", len(initial.Rows))
		}
		if len(initial.TraceGroups) != 1 {
			t.Fatalf("expected 1 initial trace group, got %d", len(initial.TraceGroups))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial frame")
	}

	st.InsertTraces([]*tracepb.ResourceSpans{makeSpanRS("backend", "POST /orders", 2, 2000, 3000)})

	select {
	case delta := <-stream.recv:
		if !delta.IsDelta {
			t.Fatalf("expected delta frame")
		}
		if len(delta.Rows) != 1 {
			t.Fatalf("expected 1 delta row, got %d", len(delta.Rows))
		}
		if len(delta.TraceGroups) != 1 {
			t.Fatalf("expected 1 delta trace group, got %d", len(delta.TraceGroups))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delta frame")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for FollowSql to return after cancellation")
	}
}
