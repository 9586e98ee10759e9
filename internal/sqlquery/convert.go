package sqlquery

import (
	"fmt"
	"strings"
)

// KV is a simple key/value attribute pair for flag-based filtering.
type KV struct {
	Key   string
	Value string
}

// TraceFlagsToSQL builds the SELECT string equivalent to the legacy
// shaped trace query flags, so the CLI and the shaped QueryTraces RPC can
// both funnel through the single SQL evaluation path.
func TraceFlagsToSQL(service, traceID string, attributes []KV, limit int, startTimeNs, endTimeNs uint64) string {
	var conditions []string
	if service != "" {
		conditions = append(conditions, fmt.Sprintf("service_name = '%s'", escapeSQLString(service)))
	}
	if traceID != "" {
		conditions = append(conditions, fmt.Sprintf("trace_id = '%s'", escapeSQLString(traceID)))
	}
	for _, kv := range attributes {
		conditions = append(conditions, fmt.Sprintf("attributes['%s'] = '%s'", escapeSQLString(kv.Key), escapeSQLString(kv.Value)))
	}
	if startTimeNs != 0 {
		conditions = append(conditions, fmt.Sprintf("start_time >= %d", startTimeNs))
	}
	if endTimeNs != 0 {
		conditions = append(conditions, fmt.Sprintf("start_time <= %d", endTimeNs))
	}
	return buildSQL("traces", conditions, limit)
}

// LogFlagsToSQL builds the SELECT string equivalent to the legacy shaped
// log query flags.
func LogFlagsToSQL(service, severity string, attributes []KV, limit int, startTimeNs, endTimeNs uint64) string {
	var conditions []string
	if service != "" {
		conditions = append(conditions, fmt.Sprintf("service_name = '%s'", escapeSQLString(service)))
	}
	if severity != "" {
		conditions = append(conditions, fmt.Sprintf("severity >= '%s'", escapeSQLString(severity)))
	}
	for _, kv := range attributes {
		conditions = append(conditions, fmt.Sprintf("attributes['%s'] = '%s'", escapeSQLString(kv.Key), escapeSQLString(kv.Value)))
	}
	if startTimeNs != 0 {
		conditions = append(conditions, fmt.Sprintf("timestamp >= %d", startTimeNs))
	}
	if endTimeNs != 0 {
		conditions = append(conditions, fmt.Sprintf("timestamp <= %d", endTimeNs))
	}
	return buildSQL("logs", conditions, limit)
}

// MetricFlagsToSQL builds the SELECT string equivalent to the legacy
// shaped metric query flags.
func MetricFlagsToSQL(service, name string, limit int, startTimeNs, endTimeNs uint64) string {
	var conditions []string
	if service != "" {
		conditions = append(conditions, fmt.Sprintf("service_name = '%s'", escapeSQLString(service)))
	}
	if name != "" {
		conditions = append(conditions, fmt.Sprintf("metric_name = '%s'", escapeSQLString(name)))
	}
	if startTimeNs != 0 {
		conditions = append(conditions, fmt.Sprintf("timestamp >= %d", startTimeNs))
	}
	if endTimeNs != 0 {
		conditions = append(conditions, fmt.Sprintf("timestamp <= %d", endTimeNs))
	}
	return buildSQL("metrics", conditions, limit)
}

func buildSQL(table string, conditions []string, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %s", table)
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	return b.String()
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
