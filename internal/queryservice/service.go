// Package queryservice implements the query gRPC surface (SqlQuery,
// FollowSql, the legacy shaped Query{Traces,Logs,Metrics}/Follow{...}/
// Clear{...} RPCs) on top of the store, the SQL parser, and the evaluator.
package queryservice

import (
	"context"

	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/otelbridge/otel-bridge/internal/evalengine"
	"github.com/otelbridge/otel-bridge/internal/query"
	v1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/sqlquery"
	"github.com/otelbridge/otel-bridge/internal/store"
)

// defaultLimit is applied whenever a caller passes limit = 0 (the proto3
// zero value doubling as "unset") or a negative limit on the legacy path.
const defaultLimit = 100

// Service implements v1.QueryServiceServer against one shared store.
type Service struct {
	v1.UnimplementedQueryServiceServer

	st  *store.Store
	log *zap.Logger
}

func New(st *store.Store, log *zap.Logger) *Service {
	return &Service{st: st, log: log}
}

func normalizeLimit(limit int32) int {
	if limit <= 0 {
		return defaultLimit
	}
	return int(limit)
}

// SqlQuery parses sql, evaluates it against the store, and packs the
// matching rows. Queries against the traces table additionally populate
// TraceGroups, one entry per matching trace_id, mirroring the store's
// one-trace_id-per-group structure rather than flattening every span into
// the Rows list alone.
func (s *Service) SqlQuery(ctx context.Context, req *v1.SqlQueryRequest) (*v1.SqlQueryResponse, error) {
	rows, groups, err := s.evalRows(req.Sql)
	if err != nil {
		return nil, err
	}
	return &v1.SqlQueryResponse{Rows: rowsToWire(rows), TraceGroups: traceGroupsToWire(groups)}, nil
}

// evalRows parses sql and projects it to packed rows, regardless of which
// virtual table it targets. For trace queries it also returns the
// per-trace_id grouping alongside the flattened rows; every other table
// target returns a nil group slice.
func (s *Service) evalRows(sql string) ([]query.Row, []evalengine.TraceGroupRows, error) {
	q, err := sqlquery.Parse(sql)
	if err != nil {
		return nil, nil, status.Errorf(codes.InvalidArgument, "parse query: %v", err)
	}
	switch q.Table {
	case query.TargetTraces:
		groups := evalengine.EvalTraces(s.st, q)
		return evalengine.ProjectTraceRows(groups, q.Projection), evalengine.ProjectTraceGroups(groups, q.Projection), nil
	case query.TargetLogs:
		logs := evalengine.EvalLogs(s.st, q)
		return evalengine.ProjectLogRows(logs, q.Projection), nil, nil
	case query.TargetMetrics:
		metrics := evalengine.EvalMetrics(s.st, q)
		return evalengine.ProjectMetricRows(metrics, q.Projection), nil, nil
	default:
		return nil, nil, status.Errorf(codes.NotFound, "unknown table")
	}
}

func attributeFiltersToKV(attrs []*v1.AttributeFilter) []sqlquery.KV {
	out := make([]sqlquery.KV, len(attrs))
	for i, a := range attrs {
		out[i] = sqlquery.KV{Key: a.Key, Value: a.Value}
	}
	return out
}

// QueryTraces applies the legacy shaped filter surface: equality conditions
// built into a SQL string via sqlquery.TraceFlagsToSQL, then evaluated the
// same way SqlQuery would.
func (s *Service) QueryTraces(ctx context.Context, req *v1.QueryTracesRequest) (*v1.QueryTracesResponse, error) {
	sql := sqlquery.TraceFlagsToSQL(req.Service, req.TraceId, attributeFiltersToKV(req.Attributes),
		normalizeLimit(req.Limit), req.StartTimeUnixNano, req.EndTimeUnixNano)
	q, err := sqlquery.Parse(sql)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "parse query: %v", err)
	}
	groups := evalengine.EvalTraces(s.st, q)
	var spans []*tracepb.ResourceSpans
	for _, g := range groups {
		spans = append(spans, g.ResourceSpans...)
	}
	return &v1.QueryTracesResponse{ResourceSpans: spans}, nil
}

func (s *Service) QueryLogs(ctx context.Context, req *v1.QueryLogsRequest) (*v1.QueryLogsResponse, error) {
	sql := sqlquery.LogFlagsToSQL(req.Service, req.Severity, attributeFiltersToKV(req.Attributes),
		normalizeLimit(req.Limit), req.StartTimeUnixNano, req.EndTimeUnixNano)
	q, err := sqlquery.Parse(sql)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "parse query: %v", err)
	}
	logs := evalengine.EvalLogs(s.st, q)
	return &v1.QueryLogsResponse{ResourceLogs: logs}, nil
}

func (s *Service) QueryMetrics(ctx context.Context, req *v1.QueryMetricsRequest) (*v1.QueryMetricsResponse, error) {
	sql := sqlquery.MetricFlagsToSQL(req.Service, req.Name, normalizeLimit(req.Limit), req.StartTimeUnixNano, req.EndTimeUnixNano)
	q, err := sqlquery.Parse(sql)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "parse query: %v", err)
	}
	metrics := evalengine.EvalMetrics(s.st, q)
	return &v1.QueryMetricsResponse{ResourceMetrics: metrics}, nil
}

func (s *Service) ClearTraces(ctx context.Context, req *v1.ClearTracesRequest) (*v1.ClearTracesResponse, error) {
	s.st.ClearTraces()
	return &v1.ClearTracesResponse{}, nil
}

func (s *Service) ClearLogs(ctx context.Context, req *v1.ClearLogsRequest) (*v1.ClearLogsResponse, error) {
	s.st.ClearLogs()
	return &v1.ClearLogsResponse{}, nil
}

func (s *Service) ClearMetrics(ctx context.Context, req *v1.ClearMetricsRequest) (*v1.ClearMetricsResponse, error) {
	s.st.ClearMetrics()
	return &v1.ClearMetricsResponse{}, nil
}
