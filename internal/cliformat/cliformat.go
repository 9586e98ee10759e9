// Package cliformat renders packed query rows the way the CLI subcommands
// print them: a human-readable text block per record, one JSON object per
// line (jsonl), a CSV table, or a single pretty-printed JSON array (trace
// rows only).
package cliformat

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/otelbridge/otel-bridge/internal/query"
	queryv1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/timespec"
)

// Format is the output rendering requested on the CLI via --format.
type Format string

const (
	FormatText  Format = "text"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSONL, FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q (want text, jsonl, csv, or json)", s)
	}
}

func hexEncode(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0x0f]
	}
	return string(out)
}

// getString reads column name as a display string, the same string/int/
// double-collapsing conversion the CLI's row accessor uses.
func getString(row *queryv1.Row, name string) (string, bool) {
	for i, c := range row.Columns {
		if c != name || i >= len(row.Values) {
			continue
		}
		v := row.Values[i]
		if v == nil || v.IsNull {
			return "", false
		}
		switch {
		case v.StringValue != nil:
			return *v.StringValue, true
		case v.IntValue != nil:
			return strconv.FormatInt(*v.IntValue, 10), true
		case v.DoubleValue != nil:
			return strconv.FormatFloat(*v.DoubleValue, 'g', -1, 64), true
		case v.BoolValue != nil:
			return strconv.FormatBool(*v.BoolValue), true
		case v.BytesValue != nil:
			return hexEncode(v.BytesValue), true
		default:
			return "", false
		}
	}
	return "", false
}

// getKVList reads column name as a packed kv-list, or false if absent/empty.
func getKVList(row *queryv1.Row, name string) ([]*queryv1.KVPair, bool) {
	for i, c := range row.Columns {
		if c != name || i >= len(row.Values) {
			continue
		}
		v := row.Values[i]
		if v == nil || len(v.KvList) == 0 {
			return nil, false
		}
		return v.KvList, true
	}
	return nil, false
}

func kvValueString(v *queryv1.RowValue) string {
	if v == nil || v.IsNull {
		return ""
	}
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntValue != nil:
		return strconv.FormatInt(*v.IntValue, 10)
	case v.DoubleValue != nil:
		return strconv.FormatFloat(*v.DoubleValue, 'g', -1, 64)
	case v.BoolValue != nil:
		return strconv.FormatBool(*v.BoolValue)
	case v.BytesValue != nil:
		return hexEncode(v.BytesValue)
	default:
		return ""
	}
}

// kvPairValue views a packed KVPair's value fields as a RowValue.
func kvPairValue(kv *queryv1.KVPair) *queryv1.RowValue {
	return &queryv1.RowValue{StringValue: kv.StringValue, IntValue: kv.IntValue, DoubleValue: kv.DoubleValue,
		BoolValue: kv.BoolValue, BytesValue: kv.BytesValue, IsNull: kv.IsNull}
}

func printKVList(w io.Writer, kvs []*queryv1.KVPair, label, indent string) {
	if len(kvs) == 0 {
		return
	}
	fmt.Fprintf(w, "%s%s:\n", indent, label)
	for _, kv := range kvs {
		fmt.Fprintf(w, "%s  %s: %s\n", indent, kv.Key, kvValueString(kvPairValue(kv)))
	}
}

// timestampColumns lists the row columns that carry raw nanosecond
// timestamps and so need RFC3339 rendering instead of the bare int string
// getString would otherwise produce.
var timestampColumns = map[string]bool{
	"timestamp":  true,
	"start_time": true,
	"end_time":   true,
}

func formattedString(row *queryv1.Row, name string) (string, bool) {
	s, ok := getString(row, name)
	if ok && timestampColumns[name] {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return timespec.Format(uint64(n)), true
		}
	}
	return s, ok
}

// PrintLogRowsText renders one log record per row: a header line of
// "{timestamp} [{severity}] {body}" (parts omitted if absent), followed by
// indented Resource: and Attributes: kv blocks.
func PrintLogRowsText(w io.Writer, rows []*queryv1.Row) {
	for _, row := range rows {
		ts, hasTS := formattedString(row, "timestamp")
		sev, hasSev := getString(row, "severity")
		body, hasBody := getString(row, "body")

		switch {
		case hasTS && hasSev && hasBody:
			fmt.Fprintf(w, "%s [%s] %s\n", ts, sev, body)
		case hasTS && hasSev:
			fmt.Fprintf(w, "%s [%s]\n", ts, sev)
		case hasTS && hasBody:
			fmt.Fprintf(w, "%s %s\n", ts, body)
		case hasTS:
			fmt.Fprintln(w, ts)
		case hasSev && hasBody:
			fmt.Fprintf(w, "[%s] %s\n", sev, body)
		case hasSev:
			fmt.Fprintf(w, "[%s]\n", sev)
		case hasBody:
			fmt.Fprintln(w, body)
		}

		if kvs, ok := getKVList(row, "resource"); ok {
			printKVList(w, kvs, "Resource", "  ")
		}
		if kvs, ok := getKVList(row, "attributes"); ok {
			printKVList(w, kvs, "Attributes", "  ")
		}
	}
}

// PrintMetricRowsText renders one data point per row: a "Metric: name (type)"
// header, the resource kv block, a Data points: line (Value/Time or
// Count/Sum/Time depending on which columns are present), then attributes.
func PrintMetricRowsText(w io.Writer, rows []*queryv1.Row) {
	for _, row := range rows {
		name, hasName := getString(row, "metric_name")
		mtype, hasType := getString(row, "type")
		switch {
		case hasName && hasType:
			fmt.Fprintf(w, "Metric: %s (%s)\n", name, mtype)
		case hasName:
			fmt.Fprintf(w, "Metric: %s\n", name)
		case hasType:
			fmt.Fprintf(w, "Metric: (%s)\n", mtype)
		}

		if kvs, ok := getKVList(row, "resource"); ok {
			printKVList(w, kvs, "Resource", "  ")
		}

		value, hasValue := getString(row, "value")
		count, hasCount := getString(row, "count")
		sum, hasSum := getString(row, "sum")
		ts, hasTS := formattedString(row, "timestamp")

		if hasValue || hasCount || hasSum {
			fmt.Fprintln(w, "  Data points:")
			switch {
			case hasValue && hasTS:
				fmt.Fprintf(w, "    Value: %s Time: %s\n", value, ts)
			case hasValue:
				fmt.Fprintf(w, "    Value: %s\n", value)
			case hasCount || hasSum:
				var parts []string
				if hasCount {
					parts = append(parts, "Count: "+count)
				}
				if hasSum {
					parts = append(parts, "Sum: "+sum)
				}
				if hasTS {
					parts = append(parts, "Time: "+ts)
				}
				fmt.Fprintf(w, "    %s\n", joinSpace(parts))
			}
		}

		if kvs, ok := getKVList(row, "attributes"); ok {
			printKVList(w, kvs, "Attributes", "  ")
		}
	}
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// PrintRowsJSONL writes one JSON object per row, column name to display
// value (kv-list columns render as a nested object), one line per row.
func PrintRowsJSONL(w io.Writer, rows []*queryv1.Row) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		obj := make(map[string]any, len(row.Columns))
		for i, name := range row.Columns {
			if i >= len(row.Values) {
				continue
			}
			obj[name] = rowValueToJSON(row.Values[i])
		}
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}

func rowValueToJSON(v *queryv1.RowValue) any {
	if v == nil || v.IsNull {
		return nil
	}
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntValue != nil:
		return *v.IntValue
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.BoolValue != nil:
		return *v.BoolValue
	case v.BytesValue != nil:
		return hexEncode(v.BytesValue)
	case len(v.KvList) > 0:
		m := make(map[string]any, len(v.KvList))
		for _, kv := range v.KvList {
			m[kv.Key] = rowValueToJSON(kvPairValue(kv))
		}
		return m
	default:
		return nil
	}
}

// PrintRowsCSV writes rows as a CSV table, emitting the header line only
// when header is true (so a follow stream shows it once).
func PrintRowsCSV(w io.Writer, rows []*queryv1.Row, header bool) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if len(rows) == 0 {
		return nil
	}
	if header {
		if err := cw.Write(rows[0].Columns); err != nil {
			return err
		}
	}
	for _, row := range rows {
		rec := make([]string, len(row.Columns))
		for i := range row.Columns {
			if i >= len(row.Values) {
				continue
			}
			rec[i] = csvCell(row.Values[i])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func csvCell(v *queryv1.RowValue) string {
	if v == nil || v.IsNull {
		return ""
	}
	if len(v.KvList) > 0 {
		b, _ := json.Marshal(rowValueToJSON(v))
		return string(b)
	}
	return kvValueString(v)
}

// PrintTraceRowsText renders one span per row, printing a "Trace: {trace_id}"
// header each time the trace_id column changes from the previous row (rows
// arrive grouped by trace since the evaluator walks one TraceGroup at a
// time), then an indented per-span block.
func PrintTraceRowsText(w io.Writer, rows []*queryv1.Row) {
	lastTraceID := ""
	for _, row := range rows {
		traceID, _ := getString(row, "trace_id")
		if traceID != lastTraceID {
			fmt.Fprintf(w, "Trace: %s\n", traceID)
			lastTraceID = traceID
		}

		spanID, _ := getString(row, "span_id")
		name, _ := getString(row, "span_name")
		status, _ := getString(row, "status_code")
		start, _ := formattedString(row, "start_time")
		durationNs, hasDuration := getString(row, "duration_ns")

		fmt.Fprintf(w, "  Span: %s [%s]\n", name, spanID)
		fmt.Fprintf(w, "    Status: %s\n", status)
		if hasDuration {
			fmt.Fprintf(w, "    Start: %s Duration: %sns\n", start, durationNs)
		} else {
			fmt.Fprintf(w, "    Start: %s\n", start)
		}
		if kvs, ok := getKVList(row, "resource"); ok {
			printKVList(w, kvs, "Resource", "    ")
		}
		if kvs, ok := getKVList(row, "attributes"); ok {
			printKVList(w, kvs, "Attributes", "    ")
		}
	}
}

// TraceRowsJSON builds the flat per-row JSON array the `trace --format json`
// and `sql`/`follow-sql --format json` commands print: one object per row carrying its
// trace/span id, resource and span attributes (as nested objects rather
// than kv-list pairs), and RFC3339 timestamps.
func TraceRowsJSON(rows []*queryv1.Row) ([]byte, error) {
	entries := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		entry := make(map[string]any, len(row.Columns))
		for i, name := range row.Columns {
			if i >= len(row.Values) {
				continue
			}
			switch name {
			case "start_time", "end_time":
				if s, ok := formattedString(row, name); ok {
					entry[name] = s
					continue
				}
			}
			entry[name] = rowValueToJSON(row.Values[i])
		}
		entries = append(entries, entry)
	}
	return json.MarshalIndent(entries, "", "  ")
}

// RowsForTable dispatches the text renderer matching a query.TargetTable,
// used by the `sql`/`follow-sql` commands where the table isn't known until
// the query string is parsed.
func RowsForTable(w io.Writer, table query.TargetTable, rows []*queryv1.Row) {
	switch table {
	case query.TargetLogs:
		PrintLogRowsText(w, rows)
	case query.TargetMetrics:
		PrintMetricRowsText(w, rows)
	case query.TargetTraces:
		PrintTraceRowsText(w, rows)
	default:
		PrintGenericRowsText(w, rows)
	}
}

// PrintGenericRowsText renders a raw row as "col: value" lines, a fallback
// for any projection shape the table-specific renderers don't recognize.
func PrintGenericRowsText(w io.Writer, rows []*queryv1.Row) {
	for i, row := range rows {
		if i > 0 {
			fmt.Fprintln(w)
		}
		for j, name := range row.Columns {
			if j >= len(row.Values) {
				continue
			}
			v := row.Values[j]
			if v != nil && len(v.KvList) > 0 {
				printKVList(w, v.KvList, name, "")
				continue
			}
			fmt.Fprintf(w, "%s: %s\n", name, kvValueString(v))
		}
	}
}
