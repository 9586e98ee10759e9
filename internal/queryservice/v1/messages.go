// Package v1 holds the wire types for the query gRPC service: SqlQuery,
// FollowSql, the legacy shaped Query{Traces,Logs,Metrics}/Follow{...}/
// Clear{...} RPCs, and the packed row shape they all return.
//
// No .proto file backs this service anywhere in the example pack — it is
// bespoke to this repo — so these types are hand-authored in the same shape
// protoc-gen-go emits: plain structs carrying the legacy Reset/String/
// ProtoMessage trio, which is all the generated gRPC handler glue in
// query_grpc.pb.go type-checks against.
package v1

import (
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// KVPair is one packed attribute/resource entry.
type KVPair struct {
	Key         string
	StringValue *string
	IntValue    *int64
	DoubleValue *float64
	BoolValue   *bool
	BytesValue  []byte
	IsNull      bool
}

func (*KVPair) Reset()         {}
func (m *KVPair) String() string { return "KVPair" }
func (*KVPair) ProtoMessage()  {}

// RowValue is the discriminated value every packed column carries.
type RowValue struct {
	StringValue *string
	IntValue    *int64
	DoubleValue *float64
	BoolValue   *bool
	BytesValue  []byte
	KvList      []*KVPair
	IsNull      bool
}

func (*RowValue) Reset()         {}
func (m *RowValue) String() string { return "RowValue" }
func (*RowValue) ProtoMessage()  {}

// Row is an ordered list of named, typed columns.
type Row struct {
	Columns []string
	Values  []*RowValue
}

func (*Row) Reset()         {}
func (m *Row) String() string { return "Row" }
func (*Row) ProtoMessage()  {}

type SqlQueryRequest struct {
	Sql string
}

func (*SqlQueryRequest) Reset()         {}
func (m *SqlQueryRequest) String() string { return "SqlQueryRequest" }
func (*SqlQueryRequest) ProtoMessage()  {}

// TraceGroup packs the rows belonging to one trace_id, mirroring the
// store's one-trace_id-per-group structure for SqlQuery/FollowSql callers
// that want spans grouped rather than flattened (spec.md §6's trace_groups
// field, populated only for queries against the traces table).
type TraceGroup struct {
	TraceId []byte
	Rows    []*Row
}

func (*TraceGroup) Reset()         {}
func (m *TraceGroup) String() string { return "TraceGroup" }
func (*TraceGroup) ProtoMessage()  {}

type SqlQueryResponse struct {
	Rows        []*Row
	TraceGroups []*TraceGroup
}

func (*SqlQueryResponse) Reset()         {}
func (m *SqlQueryResponse) String() string { return "SqlQueryResponse" }
func (*SqlQueryResponse) ProtoMessage()  {}

type FollowSqlRequest struct {
	Sql string
}

func (*FollowSqlRequest) Reset()         {}
func (m *FollowSqlRequest) String() string { return "FollowSqlRequest" }
func (*FollowSqlRequest) ProtoMessage()  {}

type FollowSqlResponse struct {
	Rows        []*Row
	TraceGroups []*TraceGroup
	IsDelta     bool
}

func (*FollowSqlResponse) Reset()         {}
func (m *FollowSqlResponse) String() string { return "FollowSqlResponse" }
func (*FollowSqlResponse) ProtoMessage()  {}

// AttributeFilter is an equality condition applied by the legacy shaped
// query RPCs; it maps 1:1 onto a `attributes['Key'] = 'Value'` SQL clause.
type AttributeFilter struct {
	Key   string
	Value string
}

func (*AttributeFilter) Reset()         {}
func (m *AttributeFilter) String() string { return "AttributeFilter" }
func (*AttributeFilter) ProtoMessage()  {}

type QueryTracesRequest struct {
	Service           string
	TraceId           string
	Attributes        []*AttributeFilter
	Limit             int32
	StartTimeUnixNano uint64
	EndTimeUnixNano   uint64
}

func (*QueryTracesRequest) Reset()         {}
func (m *QueryTracesRequest) String() string { return "QueryTracesRequest" }
func (*QueryTracesRequest) ProtoMessage()  {}

type QueryTracesResponse struct {
	ResourceSpans []*tracepb.ResourceSpans
}

func (*QueryTracesResponse) Reset()         {}
func (m *QueryTracesResponse) String() string { return "QueryTracesResponse" }
func (*QueryTracesResponse) ProtoMessage()  {}

type QueryLogsRequest struct {
	Service           string
	Severity          string
	Attributes        []*AttributeFilter
	Limit             int32
	StartTimeUnixNano uint64
	EndTimeUnixNano   uint64
}

func (*QueryLogsRequest) Reset()         {}
func (m *QueryLogsRequest) String() string { return "QueryLogsRequest" }
func (*QueryLogsRequest) ProtoMessage()  {}

type QueryLogsResponse struct {
	ResourceLogs []*logspb.ResourceLogs
}

func (*QueryLogsResponse) Reset()         {}
func (m *QueryLogsResponse) String() string { return "QueryLogsResponse" }
func (*QueryLogsResponse) ProtoMessage()  {}

type QueryMetricsRequest struct {
	Service           string
	Name              string
	Limit             int32
	StartTimeUnixNano uint64
	EndTimeUnixNano   uint64
}

func (*QueryMetricsRequest) Reset()         {}
func (m *QueryMetricsRequest) String() string { return "QueryMetricsRequest" }
func (*QueryMetricsRequest) ProtoMessage()  {}

type QueryMetricsResponse struct {
	ResourceMetrics []*metricspb.ResourceMetrics
}

func (*QueryMetricsResponse) Reset()         {}
func (m *QueryMetricsResponse) String() string { return "QueryMetricsResponse" }
func (*QueryMetricsResponse) ProtoMessage()  {}

type FollowTracesRequest struct {
	Request *QueryTracesRequest
}

func (*FollowTracesRequest) Reset()         {}
func (m *FollowTracesRequest) String() string { return "FollowTracesRequest" }
func (*FollowTracesRequest) ProtoMessage()  {}

type FollowTracesResponse struct {
	ResourceSpans []*tracepb.ResourceSpans
	IsDelta       bool
}

func (*FollowTracesResponse) Reset()         {}
func (m *FollowTracesResponse) String() string { return "FollowTracesResponse" }
func (*FollowTracesResponse) ProtoMessage()  {}

type FollowLogsRequest struct {
	Request *QueryLogsRequest
}

func (*FollowLogsRequest) Reset()         {}
func (m *FollowLogsRequest) String() string { return "FollowLogsRequest" }
func (*FollowLogsRequest) ProtoMessage()  {}

type FollowLogsResponse struct {
	ResourceLogs []*logspb.ResourceLogs
	IsDelta      bool
}

func (*FollowLogsResponse) Reset()         {}
func (m *FollowLogsResponse) String() string { return "FollowLogsResponse" }
func (*FollowLogsResponse) ProtoMessage()  {}

type FollowMetricsRequest struct {
	Request *QueryMetricsRequest
}

func (*FollowMetricsRequest) Reset()         {}
func (m *FollowMetricsRequest) String() string { return "FollowMetricsRequest" }
func (*FollowMetricsRequest) ProtoMessage()  {}

type FollowMetricsResponse struct {
	ResourceMetrics []*metricspb.ResourceMetrics
	IsDelta         bool
}

func (*FollowMetricsResponse) Reset()         {}
func (m *FollowMetricsResponse) String() string { return "FollowMetricsResponse" }
func (*FollowMetricsResponse) ProtoMessage()  {}

type ClearTracesRequest struct{}

func (*ClearTracesRequest) Reset()         {}
func (m *ClearTracesRequest) String() string { return "ClearTracesRequest" }
func (*ClearTracesRequest) ProtoMessage()  {}

type ClearTracesResponse struct{}

func (*ClearTracesResponse) Reset()         {}
func (m *ClearTracesResponse) String() string { return "ClearTracesResponse" }
func (*ClearTracesResponse) ProtoMessage()  {}

type ClearLogsRequest struct{}

func (*ClearLogsRequest) Reset()         {}
func (m *ClearLogsRequest) String() string { return "ClearLogsRequest" }
func (*ClearLogsRequest) ProtoMessage()  {}

type ClearLogsResponse struct{}

func (*ClearLogsResponse) Reset()         {}
func (m *ClearLogsResponse) String() string { return "ClearLogsResponse" }
func (*ClearLogsResponse) ProtoMessage()  {}

type ClearMetricsRequest struct{}

func (*ClearMetricsRequest) Reset()         {}
func (m *ClearMetricsRequest) String() string { return "ClearMetricsRequest" }
func (*ClearMetricsRequest) ProtoMessage()  {}

type ClearMetricsResponse struct{}

func (*ClearMetricsResponse) Reset()         {}
func (m *ClearMetricsResponse) String() string { return "ClearMetricsResponse" }
func (*ClearMetricsResponse) ProtoMessage()  {}
