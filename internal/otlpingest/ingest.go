// Package otlpingest runs the OTLP collector gRPC services (trace, logs,
// metrics) in front of the shared store, the same shape as the teacher's
// sink package but writing into the query-able store instead of acking a
// generator's message tracker.
package otlpingest

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	logspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	tracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/otelbridge/otel-bridge/internal/store"
)

// Server is the gRPC OTLP ingest endpoint. It owns no state of its own;
// every Export call writes straight into the shared store and the store's
// own pub/sub drives everything downstream (queries, follow subscriptions).
type Server struct {
	addr *url.URL
	log  *zap.Logger
	srv  *grpc.Server
	st   *store.Store
}

func New(addr string, st *store.Store, log *zap.Logger) (*Server, error) {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = fmt.Sprintf("http://%s", addr)
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}

	return &Server{addr: u, log: log, st: st, srv: grpc.NewServer()}, nil
}

func (s *Server) Addr() string { return s.addr.String() }

// Listen binds the gRPC ingest port without serving on it, so a caller can
// bind every listener for a server up front and bail out before any of them
// starts accepting traffic if a later bind fails.
func (s *Server) Listen() (net.Listener, error) {
	tracepb.RegisterTraceServiceServer(s.srv, &traceService{log: s.log, st: s.st})
	logspb.RegisterLogsServiceServer(s.srv, &logsService{log: s.log, st: s.st})
	metricspb.RegisterMetricsServiceServer(s.srv, &metricsService{log: s.log, st: s.st})

	s.log.Info("binding otlp grpc ingest", zap.String("addr", fmt.Sprintf(":%s", s.addr.Port())))
	return net.Listen("tcp", fmt.Sprintf(":%s", s.addr.Port()))
}

// Serve starts accepting on lis in a background goroutine. Call Listen
// first; Serve never binds.
func (s *Server) Serve(lis net.Listener) {
	go func() {
		if err := s.srv.Serve(lis); err != nil {
			s.log.Error("otlp grpc ingest stopped serving", zap.Error(err))
		}
	}()
}

func (s *Server) Stop() {
	s.srv.GracefulStop()
}

type traceService struct {
	log *zap.Logger
	st  *store.Store
	tracepb.UnimplementedTraceServiceServer
}

func (t *traceService) Export(ctx context.Context, req *tracepb.ExportTraceServiceRequest) (*tracepb.ExportTraceServiceResponse, error) {
	t.st.InsertTraces(req.ResourceSpans)
	return &tracepb.ExportTraceServiceResponse{}, nil
}

type logsService struct {
	log *zap.Logger
	st  *store.Store
	logspb.UnimplementedLogsServiceServer
}

func (l *logsService) Export(ctx context.Context, req *logspb.ExportLogsServiceRequest) (*logspb.ExportLogsServiceResponse, error) {
	l.st.InsertLogs(req.ResourceLogs)
	return &logspb.ExportLogsServiceResponse{}, nil
}

type metricsService struct {
	log *zap.Logger
	st  *store.Store
	metricspb.UnimplementedMetricsServiceServer
}

func (m *metricsService) Export(ctx context.Context, req *metricspb.ExportMetricsServiceRequest) (*metricspb.ExportMetricsServiceResponse, error) {
	m.st.InsertMetrics(req.ResourceMetrics)
	return &metricspb.ExportMetricsServiceResponse{}, nil
}
