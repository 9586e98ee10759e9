package queryservice

import (
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/otelbridge/otel-bridge/internal/evalengine"
	"github.com/otelbridge/otel-bridge/internal/query"
	v1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/sqlquery"
	"github.com/otelbridge/otel-bridge/internal/store"
)

// relevantEvent reports whether an event changes the table q targets.
func relevantEvent(e store.Event, table query.TargetTable) bool {
	switch table {
	case query.TargetTraces:
		return e == store.TracesAdded || e == store.TracesCleared
	case query.TargetLogs:
		return e == store.LogsAdded || e == store.LogsCleared
	case query.TargetMetrics:
		return e == store.MetricsAdded || e == store.MetricsCleared
	default:
		return false
	}
}

// FollowSql sends the full current result for sql, then a delta batch each
// time the store publishes a change relevant to the query's table. Bookmark
// tracking follows §4.6: trace_version for traces, sort-key (with identity
// dedup at ties) for logs/metrics. A lagged subscriber forces a full resync.
func (s *Service) FollowSql(req *v1.FollowSqlRequest, stream v1.QueryService_FollowSqlServer) error {
	q, err := sqlquery.Parse(req.Sql)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "parse query: %v", err)
	}

	sub := s.st.Subscribe()
	defer sub.Close()

	switch q.Table {
	case query.TargetTraces:
		return s.followTraces(stream, q, sub)
	case query.TargetLogs:
		return s.followLogs(stream, q, sub)
	case query.TargetMetrics:
		return s.followMetrics(stream, q, sub)
	default:
		return status.Errorf(codes.NotFound, "unknown table")
	}
}

func (s *Service) followTraces(stream v1.QueryService_FollowSqlServer, q *sqlquery.Query, sub *store.Subscription) error {
	groups := evalengine.EvalTraces(s.st, q)
	lastSeen := s.st.CurrentTraceVersion()
	if err := stream.Send(&v1.FollowSqlResponse{
		Rows:        rowsToWire(evalengine.ProjectTraceRows(groups, q.Projection)),
		TraceGroups: traceGroupsToWire(evalengine.ProjectTraceGroups(groups, q.Projection)),
		IsDelta:     false,
	}); err != nil {
		return err
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Lagged:
			groups := evalengine.EvalTraces(s.st, q)
			lastSeen = s.st.CurrentTraceVersion()
			if err := stream.Send(&v1.FollowSqlResponse{
				Rows:        rowsToWire(evalengine.ProjectTraceRows(groups, q.Projection)),
				TraceGroups: traceGroupsToWire(evalengine.ProjectTraceGroups(groups, q.Projection)),
				IsDelta:     false,
			}); err != nil {
				return err
			}
		case e, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(e, query.TargetTraces) {
				continue
			}
			all := s.st.QueryTracesSinceVersion(lastSeen)
			var delta []*store.TraceGroup
			for _, g := range all {
				if traceGroupMatchesWhere(g, q) {
					delta = append(delta, g)
				}
				if g.Version > lastSeen {
					lastSeen = g.Version
				}
			}
			if len(delta) == 0 {
				continue
			}
			if err := stream.Send(&v1.FollowSqlResponse{
				Rows:        rowsToWire(evalengine.ProjectTraceRows(delta, q.Projection)),
				TraceGroups: traceGroupsToWire(evalengine.ProjectTraceGroups(delta, q.Projection)),
				IsDelta:     true,
			}); err != nil {
				return err
			}
		}
	}
}

func (s *Service) followLogs(stream v1.QueryService_FollowSqlServer, q *sqlquery.Query, sub *store.Subscription) error {
	logs := evalengine.EvalLogs(s.st, q)
	sent := map[*logspb.ResourceLogs]bool{}
	var kLast uint64
	for _, rl := range s.st.AllLogs() {
		if store.LogSortKey(rl) > kLast {
			kLast = store.LogSortKey(rl)
		}
	}
	for _, rl := range logs {
		sent[rl] = true
	}
	if err := stream.Send(&v1.FollowSqlResponse{Rows: rowsToWire(evalengine.ProjectLogRows(logs, q.Projection)), IsDelta: false}); err != nil {
		return err
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Lagged:
			logs := evalengine.EvalLogs(s.st, q)
			sent = map[*logspb.ResourceLogs]bool{}
			kLast = 0
			for _, rl := range s.st.AllLogs() {
				if store.LogSortKey(rl) > kLast {
					kLast = store.LogSortKey(rl)
				}
			}
			for _, rl := range logs {
				sent[rl] = true
			}
			if err := stream.Send(&v1.FollowSqlResponse{Rows: rowsToWire(evalengine.ProjectLogRows(logs, q.Projection)), IsDelta: false}); err != nil {
				return err
			}
		case e, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(e, query.TargetLogs) {
				continue
			}
			candidates := s.st.QueryLogsSince(kLast)
			var fresh []*logspb.ResourceLogs
			newMax := kLast
			for _, rl := range candidates {
				if sent[rl] {
					continue
				}
				fresh = append(fresh, rl)
				sent[rl] = true
				if k := store.LogSortKey(rl); k > newMax {
					newMax = k
				}
			}
			kLast = newMax
			if len(fresh) == 0 {
				continue
			}
			matched := evalengine.FilterLogs(fresh, q.Where)
			if len(matched) == 0 {
				continue
			}
			if err := stream.Send(&v1.FollowSqlResponse{Rows: rowsToWire(evalengine.ProjectLogRows(matched, q.Projection)), IsDelta: true}); err != nil {
				return err
			}
		}
	}
}

func (s *Service) followMetrics(stream v1.QueryService_FollowSqlServer, q *sqlquery.Query, sub *store.Subscription) error {
	metrics := evalengine.EvalMetrics(s.st, q)
	sent := map[*metricspb.ResourceMetrics]bool{}
	var kLast uint64
	for _, rm := range s.st.AllMetrics() {
		if store.MetricSortKey(rm) > kLast {
			kLast = store.MetricSortKey(rm)
		}
	}
	for _, rm := range metrics {
		sent[rm] = true
	}
	if err := stream.Send(&v1.FollowSqlResponse{Rows: rowsToWire(evalengine.ProjectMetricRows(metrics, q.Projection)), IsDelta: false}); err != nil {
		return err
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Lagged:
			metrics := evalengine.EvalMetrics(s.st, q)
			sent = map[*metricspb.ResourceMetrics]bool{}
			kLast = 0
			for _, rm := range s.st.AllMetrics() {
				if store.MetricSortKey(rm) > kLast {
					kLast = store.MetricSortKey(rm)
				}
			}
			for _, rm := range metrics {
				sent[rm] = true
			}
			if err := stream.Send(&v1.FollowSqlResponse{Rows: rowsToWire(evalengine.ProjectMetricRows(metrics, q.Projection)), IsDelta: false}); err != nil {
				return err
			}
		case e, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(e, query.TargetMetrics) {
				continue
			}
			candidates := s.st.QueryMetricsSince(kLast)
			var fresh []*metricspb.ResourceMetrics
			newMax := kLast
			for _, rm := range candidates {
				if sent[rm] {
					continue
				}
				fresh = append(fresh, rm)
				sent[rm] = true
				if k := store.MetricSortKey(rm); k > newMax {
					newMax = k
				}
			}
			kLast = newMax
			if len(fresh) == 0 {
				continue
			}
			matched := evalengine.FilterMetrics(fresh, q.Where)
			if len(matched) == 0 {
				continue
			}
			if err := stream.Send(&v1.FollowSqlResponse{Rows: rowsToWire(evalengine.ProjectMetricRows(matched, q.Projection)), IsDelta: true}); err != nil {
				return err
			}
		}
	}
}

func traceGroupMatchesWhere(g *store.TraceGroup, q *sqlquery.Query) bool {
	filtered := evalengine.FilterTraceGroups([]*store.TraceGroup{g}, q.Where)
	return len(filtered) == 1
}

// FollowTraces mirrors FollowSql for the legacy shaped trace filter.
func (s *Service) FollowTraces(req *v1.FollowTracesRequest, stream v1.QueryService_FollowTracesServer) error {
	r := req.Request
	if r == nil {
		r = &v1.QueryTracesRequest{}
	}
	sql := sqlquery.TraceFlagsToSQL(r.Service, r.TraceId, attributeFiltersToKV(r.Attributes),
		normalizeLimit(r.Limit), r.StartTimeUnixNano, r.EndTimeUnixNano)
	q, err := sqlquery.Parse(sql)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "parse query: %v", err)
	}

	sub := s.st.Subscribe()
	defer sub.Close()

	groups := evalengine.EvalTraces(s.st, q)
	lastSeen := s.st.CurrentTraceVersion()
	if err := stream.Send(&v1.FollowTracesResponse{ResourceSpans: flattenTraceSpans(groups), IsDelta: false}); err != nil {
		return err
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Lagged:
			groups := evalengine.EvalTraces(s.st, q)
			lastSeen = s.st.CurrentTraceVersion()
			if err := stream.Send(&v1.FollowTracesResponse{ResourceSpans: flattenTraceSpans(groups), IsDelta: false}); err != nil {
				return err
			}
		case e, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(e, query.TargetTraces) {
				continue
			}
			all := s.st.QueryTracesSinceVersion(lastSeen)
			var delta []*store.TraceGroup
			for _, g := range all {
				if traceGroupMatchesWhere(g, q) {
					delta = append(delta, g)
				}
				if g.Version > lastSeen {
					lastSeen = g.Version
				}
			}
			if len(delta) == 0 {
				continue
			}
			if err := stream.Send(&v1.FollowTracesResponse{ResourceSpans: flattenTraceSpans(delta), IsDelta: true}); err != nil {
				return err
			}
		}
	}
}

func flattenTraceSpans(groups []*store.TraceGroup) []*tracepb.ResourceSpans {
	var spans []*tracepb.ResourceSpans
	for _, g := range groups {
		spans = append(spans, g.ResourceSpans...)
	}
	return spans
}

// FollowLogs mirrors FollowSql for the legacy shaped log filter.
func (s *Service) FollowLogs(req *v1.FollowLogsRequest, stream v1.QueryService_FollowLogsServer) error {
	r := req.Request
	if r == nil {
		r = &v1.QueryLogsRequest{}
	}
	sql := sqlquery.LogFlagsToSQL(r.Service, r.Severity, attributeFiltersToKV(r.Attributes),
		normalizeLimit(r.Limit), r.StartTimeUnixNano, r.EndTimeUnixNano)
	q, err := sqlquery.Parse(sql)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "parse query: %v", err)
	}

	sub := s.st.Subscribe()
	defer sub.Close()

	logs := evalengine.EvalLogs(s.st, q)
	sent := map[*logspb.ResourceLogs]bool{}
	var kLast uint64
	for _, rl := range s.st.AllLogs() {
		if store.LogSortKey(rl) > kLast {
			kLast = store.LogSortKey(rl)
		}
	}
	for _, rl := range logs {
		sent[rl] = true
	}
	if err := stream.Send(&v1.FollowLogsResponse{ResourceLogs: logs, IsDelta: false}); err != nil {
		return err
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Lagged:
			logs := evalengine.EvalLogs(s.st, q)
			sent = map[*logspb.ResourceLogs]bool{}
			kLast = 0
			for _, rl := range s.st.AllLogs() {
				if store.LogSortKey(rl) > kLast {
					kLast = store.LogSortKey(rl)
				}
			}
			for _, rl := range logs {
				sent[rl] = true
			}
			if err := stream.Send(&v1.FollowLogsResponse{ResourceLogs: logs, IsDelta: false}); err != nil {
				return err
			}
		case e, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(e, query.TargetLogs) {
				continue
			}
			candidates := s.st.QueryLogsSince(kLast)
			var fresh []*logspb.ResourceLogs
			newMax := kLast
			for _, rl := range candidates {
				if sent[rl] {
					continue
				}
				fresh = append(fresh, rl)
				sent[rl] = true
				if k := store.LogSortKey(rl); k > newMax {
					newMax = k
				}
			}
			kLast = newMax
			if len(fresh) == 0 {
				continue
			}
			matched := evalengine.FilterLogs(fresh, q.Where)
			if len(matched) == 0 {
				continue
			}
			if err := stream.Send(&v1.FollowLogsResponse{ResourceLogs: matched, IsDelta: true}); err != nil {
				return err
			}
		}
	}
}

// FollowMetrics mirrors FollowSql for the legacy shaped metric filter.
func (s *Service) FollowMetrics(req *v1.FollowMetricsRequest, stream v1.QueryService_FollowMetricsServer) error {
	r := req.Request
	if r == nil {
		r = &v1.QueryMetricsRequest{}
	}
	sql := sqlquery.MetricFlagsToSQL(r.Service, r.Name, normalizeLimit(r.Limit), r.StartTimeUnixNano, r.EndTimeUnixNano)
	q, err := sqlquery.Parse(sql)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "parse query: %v", err)
	}

	sub := s.st.Subscribe()
	defer sub.Close()

	metrics := evalengine.EvalMetrics(s.st, q)
	sent := map[*metricspb.ResourceMetrics]bool{}
	var kLast uint64
	for _, rm := range s.st.AllMetrics() {
		if store.MetricSortKey(rm) > kLast {
			kLast = store.MetricSortKey(rm)
		}
	}
	for _, rm := range metrics {
		sent[rm] = true
	}
	if err := stream.Send(&v1.FollowMetricsResponse{ResourceMetrics: metrics, IsDelta: false}); err != nil {
		return err
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Lagged:
			metrics := evalengine.EvalMetrics(s.st, q)
			sent = map[*metricspb.ResourceMetrics]bool{}
			kLast = 0
			for _, rm := range s.st.AllMetrics() {
				if store.MetricSortKey(rm) > kLast {
					kLast = store.MetricSortKey(rm)
				}
			}
			for _, rm := range metrics {
				sent[rm] = true
			}
			if err := stream.Send(&v1.FollowMetricsResponse{ResourceMetrics: metrics, IsDelta: false}); err != nil {
				return err
			}
		case e, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(e, query.TargetMetrics) {
				continue
			}
			candidates := s.st.QueryMetricsSince(kLast)
			var fresh []*metricspb.ResourceMetrics
			newMax := kLast
			for _, rm := range candidates {
				if sent[rm] {
					continue
				}
				fresh = append(fresh, rm)
				sent[rm] = true
				if k := store.MetricSortKey(rm); k > newMax {
					newMax = k
				}
			}
			kLast = newMax
			if len(fresh) == 0 {
				continue
			}
			matched := evalengine.FilterMetrics(fresh, q.Where)
			if len(matched) == 0 {
				continue
			}
			if err := stream.Send(&v1.FollowMetricsResponse{ResourceMetrics: matched, IsDelta: true}); err != nil {
				return err
			}
		}
	}
}
