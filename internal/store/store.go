// Package store implements the bounded, time-ordered, trace-id-grouped
// in-memory collection that backs every signal kind ingested over OTLP:
// traces (grouped into TraceGroups), logs, and metrics. It is the single
// shared state behind both ingest and query: a multi-reader/single-writer
// lock protects it, writers are scoped to one inserted batch, and readers
// clone what they emit before releasing the lock.
package store

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// Event is published on every mutation. Events carry no payload;
// subscribers re-query the store on receipt.
type Event int

const (
	TracesAdded Event = iota
	LogsAdded
	MetricsAdded
	TracesCleared
	LogsCleared
	MetricsCleared
)

func (e Event) String() string {
	switch e {
	case TracesAdded:
		return "traces_added"
	case LogsAdded:
		return "logs_added"
	case MetricsAdded:
		return "metrics_added"
	case TracesCleared:
		return "traces_cleared"
	case LogsCleared:
		return "logs_cleared"
	case MetricsCleared:
		return "metrics_cleared"
	default:
		return "unknown"
	}
}

// TraceGroup aggregates every stored ResourceSpans sharing one trace_id.
// It is the unit of both ordering and eviction: a long-lived trace does not
// evict until its whole group is dropped.
type TraceGroup struct {
	TraceID      []byte
	ResourceSpans []*tracepb.ResourceSpans
	rsVersions    []uint64
	SortKey       uint64
	Version       uint64
}

// subscriberBuffer is the per-subscriber capacity of the Event fan-out
// below (Subscribe/publish), which has lag detection,
// grounded on the same semantics as a Go channel-of-channels broadcast:
// a slow subscriber that doesn't drain in time is told it lagged rather
// than silently missing updates.
const subscriberBuffer = 256

type subscriber struct {
	ch     chan Event
	lagged chan struct{}
}

type Store struct {
	mu sync.RWMutex

	traces  []*TraceGroup
	logs    []*logspb.ResourceLogs
	metrics []*metricspb.ResourceMetrics

	maxItems     int
	traceVersion uint64

	subMu sync.Mutex
	subs  map[*subscriber]struct{}
}

// Subscription is a per-caller handle on the change broadcast. Lagged
// receives a signal when the subscriber falls behind; the caller MUST resync from
// scratch on the next event after observing it, per the store's recoverable-
// lag contract.
type Subscription struct {
	store  *Store
	sub    *subscriber
	Events <-chan Event
	Lagged <-chan struct{}
}

func New(maxItems int) *Store {
	return &Store{
		maxItems: maxItems,
		subs:     make(map[*subscriber]struct{}),
	}
}

func (s *Store) Subscribe() *Subscription {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer), lagged: make(chan struct{}, 1)}
	s.subMu.Lock()
	s.subs[sub] = struct{}{}
	s.subMu.Unlock()

	return &Subscription{store: s, sub: sub, Events: sub.ch, Lagged: sub.lagged}
}

func (sub *Subscription) Close() {
	sub.store.subMu.Lock()
	delete(sub.store.subs, sub.sub)
	sub.store.subMu.Unlock()
}

func (s *Store) publish(e Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for sub := range s.subs {
		select {
		case sub.ch <- e:
		default:
			// Slow subscriber: signal lag rather than block the writer or
			// silently drop. The subscriber must resync from the store.
			select {
			case sub.lagged <- struct{}{}:
			default:
			}
		}
	}
}

// --- sort keys ---

func rsSortKey(rs *tracepb.ResourceSpans) uint64 {
	var min uint64
	set := false
	for _, ss := range rs.ScopeSpans {
		for _, span := range ss.Spans {
			if !set || span.StartTimeUnixNano < min {
				min = span.StartTimeUnixNano
				set = true
			}
		}
	}
	return min
}

func LogSortKey(rl *logspb.ResourceLogs) uint64 {
	var min uint64
	set := false
	for _, sl := range rl.ScopeLogs {
		for _, lr := range sl.LogRecords {
			ts := lr.TimeUnixNano
			if ts == 0 {
				ts = lr.ObservedTimeUnixNano
			}
			if !set || ts < min {
				min = ts
				set = true
			}
		}
	}
	return min
}

func MetricSortKey(rm *metricspb.ResourceMetrics) uint64 {
	const maxU64 = ^uint64(0)
	min := maxU64
	consider := func(ts uint64) {
		if ts < min {
			min = ts
		}
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch d := m.Data.(type) {
			case *metricspb.Metric_Gauge:
				for _, dp := range d.Gauge.DataPoints {
					consider(dp.TimeUnixNano)
				}
			case *metricspb.Metric_Sum:
				for _, dp := range d.Sum.DataPoints {
					consider(dp.TimeUnixNano)
				}
			case *metricspb.Metric_Histogram:
				for _, dp := range d.Histogram.DataPoints {
					consider(dp.TimeUnixNano)
				}
			case *metricspb.Metric_ExponentialHistogram:
				for _, dp := range d.ExponentialHistogram.DataPoints {
					consider(dp.TimeUnixNano)
				}
			case *metricspb.Metric_Summary:
				for _, dp := range d.Summary.DataPoints {
					consider(dp.TimeUnixNano)
				}
			}
		}
	}
	if min == maxU64 {
		return 0
	}
	return min
}

// SeverityTextToNumber maps a severity text to its ordinal, falling back to
// parsing the text as an integer, per the fixed ordinal table.
func SeverityTextToNumber(text string) (int32, bool) {
	switch strings.ToUpper(text) {
	case "TRACE":
		return 1, true
	case "DEBUG":
		return 5, true
	case "INFO":
		return 9, true
	case "WARN", "WARNING":
		return 13, true
	case "ERROR":
		return 17, true
	case "FATAL":
		return 21, true
	default:
		n, err := strconv.Atoi(text)
		if err != nil {
			return 0, false
		}
		return int32(n), true
	}
}

// splitByTraceID splits a ResourceSpans carrying spans from multiple
// trace_ids into one ResourceSpans per trace_id, preserving scope grouping
// and dropping empty scopes. The fast path returns the record unmodified
// when it already carries a single trace_id.
func splitByTraceID(rs *tracepb.ResourceSpans) []struct {
	TraceID []byte
	RS      *tracepb.ResourceSpans
} {
	var traceIDs [][]byte
	seen := map[string]bool{}
	for _, ss := range rs.ScopeSpans {
		for _, span := range ss.Spans {
			key := string(span.TraceId)
			if !seen[key] {
				seen[key] = true
				traceIDs = append(traceIDs, span.TraceId)
			}
		}
	}
	sort.Slice(traceIDs, func(i, j int) bool {
		return string(traceIDs[i]) < string(traceIDs[j])
	})

	if len(traceIDs) <= 1 {
		var tid []byte
		if len(traceIDs) == 1 {
			tid = traceIDs[0]
		}
		return []struct {
			TraceID []byte
			RS      *tracepb.ResourceSpans
		}{{TraceID: tid, RS: rs}}
	}

	out := make([]struct {
		TraceID []byte
		RS      *tracepb.ResourceSpans
	}, 0, len(traceIDs))
	for _, tid := range traceIDs {
		var scopeSpans []*tracepb.ScopeSpans
		for _, ss := range rs.ScopeSpans {
			var spans []*tracepb.Span
			for _, span := range ss.Spans {
				if string(span.TraceId) == string(tid) {
					spans = append(spans, span)
				}
			}
			if len(spans) == 0 {
				continue
			}
			scopeSpans = append(scopeSpans, &tracepb.ScopeSpans{
				Scope:     ss.Scope,
				Spans:     spans,
				SchemaUrl: ss.SchemaUrl,
			})
		}
		out = append(out, struct {
			TraceID []byte
			RS      *tracepb.ResourceSpans
		}{
			TraceID: tid,
			RS: &tracepb.ResourceSpans{
				Resource:   rs.Resource,
				ScopeSpans: scopeSpans,
				SchemaUrl:  rs.SchemaUrl,
			},
		})
	}
	return out
}

// sortedInsertPos finds the first index whose key is > target, preserving
// insertion order among equal keys (the search uses <=, matching the
// original's partition_point semantics).
func sortedInsertPos[T any](items []T, target uint64, keyFn func(T) uint64) int {
	lo, hi := 0, len(items)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if keyFn(items[mid]) <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (s *Store) InsertTraces(batch []*tracepb.ResourceSpans) {
	s.mu.Lock()
	for _, rs := range batch {
		for _, part := range splitByTraceID(rs) {
			ts := rsSortKey(part.RS)
			s.traceVersion++
			ver := s.traceVersion

			idx := -1
			for i, g := range s.traces {
				if string(g.TraceID) == string(part.TraceID) {
					idx = i
					break
				}
			}
			if idx >= 0 {
				g := s.traces[idx]
				pos := sort.Search(len(g.ResourceSpans), func(i int) bool {
					return rsSortKey(g.ResourceSpans[i]) > ts
				})
				g.ResourceSpans = append(g.ResourceSpans, nil)
				copy(g.ResourceSpans[pos+1:], g.ResourceSpans[pos:])
				g.ResourceSpans[pos] = part.RS

				g.rsVersions = append(g.rsVersions, 0)
				copy(g.rsVersions[pos+1:], g.rsVersions[pos:])
				g.rsVersions[pos] = ver

				g.Version = ver
				if ts < g.SortKey {
					g.SortKey = ts
					s.traces = append(s.traces[:idx], s.traces[idx+1:]...)
					newPos := sortedInsertPos(s.traces, g.SortKey, func(tg *TraceGroup) uint64 { return tg.SortKey })
					s.traces = append(s.traces, nil)
					copy(s.traces[newPos+1:], s.traces[newPos:])
					s.traces[newPos] = g
				}
			} else {
				g := &TraceGroup{
					TraceID:       part.TraceID,
					ResourceSpans: []*tracepb.ResourceSpans{part.RS},
					rsVersions:    []uint64{ver},
					SortKey:       ts,
					Version:       ver,
				}
				pos := sortedInsertPos(s.traces, g.SortKey, func(tg *TraceGroup) uint64 { return tg.SortKey })
				s.traces = append(s.traces, nil)
				copy(s.traces[pos+1:], s.traces[pos:])
				s.traces[pos] = g
			}
		}
	}
	for len(s.traces) > s.maxItems {
		s.traces = s.traces[1:]
	}
	s.mu.Unlock()
	s.publish(TracesAdded)
}

func (s *Store) InsertLogs(batch []*logspb.ResourceLogs) {
	s.mu.Lock()
	for _, rl := range batch {
		ts := LogSortKey(rl)
		pos := sortedInsertPos(s.logs, ts, LogSortKey)
		s.logs = append(s.logs, nil)
		copy(s.logs[pos+1:], s.logs[pos:])
		s.logs[pos] = rl
		if len(s.logs) > s.maxItems {
			s.logs = s.logs[1:]
		}
	}
	s.mu.Unlock()
	s.publish(LogsAdded)
}

func (s *Store) InsertMetrics(batch []*metricspb.ResourceMetrics) {
	s.mu.Lock()
	for _, rm := range batch {
		ts := MetricSortKey(rm)
		pos := sortedInsertPos(s.metrics, ts, MetricSortKey)
		s.metrics = append(s.metrics, nil)
		copy(s.metrics[pos+1:], s.metrics[pos:])
		s.metrics[pos] = rm
		if len(s.metrics) > s.maxItems {
			s.metrics = s.metrics[1:]
		}
	}
	s.mu.Unlock()
	s.publish(MetricsAdded)
}

func (s *Store) ClearTraces() {
	s.mu.Lock()
	s.traces = nil
	s.mu.Unlock()
	s.publish(TracesCleared)
}

func (s *Store) ClearLogs() {
	s.mu.Lock()
	s.logs = nil
	s.mu.Unlock()
	s.publish(LogsCleared)
}

func (s *Store) ClearMetrics() {
	s.mu.Lock()
	s.metrics = nil
	s.mu.Unlock()
	s.publish(MetricsCleared)
}

// AllTraces returns a shallow copy of the ordered trace groups. Callers must
// not mutate the returned groups' ResourceSpans slices in place.
func (s *Store) AllTraces() []*TraceGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*TraceGroup, len(s.traces))
	copy(out, s.traces)
	return out
}

func (s *Store) AllLogs() []*logspb.ResourceLogs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*logspb.ResourceLogs, len(s.logs))
	copy(out, s.logs)
	return out
}

func (s *Store) AllMetrics() []*metricspb.ResourceMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*metricspb.ResourceMetrics, len(s.metrics))
	copy(out, s.metrics)
	return out
}

func (s *Store) TraceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.traces)
}

func (s *Store) LogCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

func (s *Store) MetricCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.metrics)
}

func (s *Store) QueryTracesSinceVersion(minVersion uint64) []*TraceGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*TraceGroup
	for _, g := range s.traces {
		if g.Version > minVersion {
			out = append(out, g)
		}
	}
	return out
}

func (s *Store) CurrentTraceVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.traceVersion
}

func (s *Store) QueryLogsSince(minTS uint64) []*logspb.ResourceLogs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*logspb.ResourceLogs
	for _, rl := range s.logs {
		if LogSortKey(rl) >= minTS {
			out = append(out, rl)
		}
	}
	return out
}

func (s *Store) QueryMetricsSince(minTS uint64) []*metricspb.ResourceMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*metricspb.ResourceMetrics
	for _, rm := range s.metrics {
		if MetricSortKey(rm) >= minTS {
			out = append(out, rm)
		}
	}
	return out
}
