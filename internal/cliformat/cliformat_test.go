package cliformat

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	queryv1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
)

func strVal(s string) *queryv1.RowValue { return &queryv1.RowValue{StringValue: &s} }
func intVal(n int64) *queryv1.RowValue  { return &queryv1.RowValue{IntValue: &n} }

func logRow(ts int64, severity, body string) *queryv1.Row {
	return &queryv1.Row{
		Columns: []string{"timestamp", "severity", "body"},
		Values:  []*queryv1.RowValue{intVal(ts), strVal(severity), strVal(body)},
	}
}

func TestParseFormatAcceptsKnownValues(t *testing.T) {
	for _, s := range []string{"text", "jsonl", "csv", "json"} {
		if _, err := ParseFormat(s); err != nil {
			t.Fatalf("%s: unexpected error: %v", s, err)
		}
	}
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestPrintLogRowsTextFullHeader(t *testing.T) {
	row := logRow(1_704_067_200_000_000_000, "ERROR", "disk full")
	var buf bytes.Buffer
	PrintLogRowsText(&buf, []*queryv1.Row{row})
	got := buf.String()
	if !strings.Contains(got, "[ERROR] disk full") {
		t.Fatalf("missing severity/body in output: %q", got)
	}
	if !strings.Contains(got, "2024-01-01T00:00:00.000Z") {
		t.Fatalf("missing formatted timestamp in output: %q", got)
	}
}

func TestPrintLogRowsTextOmitsMissingParts(t *testing.T) {
	row := &queryv1.Row{
		Columns: []string{"timestamp", "severity", "body"},
		Values:  []*queryv1.RowValue{{IsNull: true}, {IsNull: true}, strVal("just a body")},
	}
	var buf bytes.Buffer
	PrintLogRowsText(&buf, []*queryv1.Row{row})
	if strings.TrimSpace(buf.String()) != "just a body" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestPrintLogRowsTextResourceAndAttributes(t *testing.T) {
	row := logRow(0, "INFO", "hello")
	row.Columns = append(row.Columns, "resource", "attributes")
	row.Values = append(row.Values,
		&queryv1.RowValue{KvList: []*queryv1.KVPair{{Key: "service.name", StringValue: strVal("api").StringValue}}},
		&queryv1.RowValue{KvList: []*queryv1.KVPair{{Key: "env", StringValue: strVal("prod").StringValue}}},
	)
	var buf bytes.Buffer
	PrintLogRowsText(&buf, []*queryv1.Row{row})
	got := buf.String()
	if !strings.Contains(got, "  Resource:\n    service.name: api\n") {
		t.Fatalf("missing resource block: %q", got)
	}
	if !strings.Contains(got, "  Attributes:\n    env: prod\n") {
		t.Fatalf("missing attributes block: %q", got)
	}
}

func TestPrintMetricRowsTextGaugeValue(t *testing.T) {
	f := 42.5
	row := &queryv1.Row{
		Columns: []string{"metric_name", "type", "value", "timestamp"},
		Values:  []*queryv1.RowValue{strVal("cpu.load"), strVal("gauge"), {DoubleValue: &f}, intVal(5)},
	}
	var buf bytes.Buffer
	PrintMetricRowsText(&buf, []*queryv1.Row{row})
	got := buf.String()
	if !strings.HasPrefix(got, "Metric: cpu.load (gauge)\n") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "Value: 42.5") {
		t.Fatalf("missing value line: %q", got)
	}
}

func TestPrintMetricRowsTextHistogramCountSum(t *testing.T) {
	row := &queryv1.Row{
		Columns: []string{"metric_name", "type", "count", "sum"},
		Values:  []*queryv1.RowValue{strVal("latency"), strVal("histogram"), intVal(10), intVal(500)},
	}
	var buf bytes.Buffer
	PrintMetricRowsText(&buf, []*queryv1.Row{row})
	got := buf.String()
	if !strings.Contains(got, "Count: 10 Sum: 500") {
		t.Fatalf("got %q", got)
	}
}

func TestPrintRowsJSONLOneObjectPerLine(t *testing.T) {
	rows := []*queryv1.Row{logRow(1, "INFO", "a"), logRow(2, "WARN", "b")}
	var buf bytes.Buffer
	if err := PrintRowsJSONL(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"severity":"INFO"`) {
		t.Fatalf("got %q", lines[0])
	}
}

func TestPrintRowsCSVHeaderOnce(t *testing.T) {
	rows := []*queryv1.Row{logRow(1, "INFO", "a")}
	var buf bytes.Buffer
	if err := PrintRowsCSV(&buf, rows, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "timestamp,severity,body" {
		t.Fatalf("got header %q", lines[0])
	}
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}

	var buf2 bytes.Buffer
	if err := PrintRowsCSV(&buf2, rows, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf2.String(), "timestamp,severity,body") {
		t.Fatalf("did not expect header: %q", buf2.String())
	}
}

func TestPrintTraceRowsTextGroupsByTraceID(t *testing.T) {
	mk := func(traceID, spanID, name string) *queryv1.Row {
		return &queryv1.Row{
			Columns: []string{"trace_id", "span_id", "span_name", "status_code", "start_time"},
			Values:  []*queryv1.RowValue{strVal(traceID), strVal(spanID), strVal(name), intVal(0), intVal(0)},
		}
	}
	rows := []*queryv1.Row{mk("aa", "1", "root"), mk("aa", "2", "child"), mk("bb", "3", "other")}
	var buf bytes.Buffer
	PrintTraceRowsText(&buf, rows)
	got := buf.String()
	if strings.Count(got, "Trace: aa") != 1 {
		t.Fatalf("expected exactly one header for trace aa, got: %q", got)
	}
	if strings.Count(got, "Trace: bb") != 1 {
		t.Fatalf("expected exactly one header for trace bb, got: %q", got)
	}
	if !strings.Contains(got, "Span: root [1]") || !strings.Contains(got, "Span: child [2]") {
		t.Fatalf("missing span lines: %q", got)
	}
}

func TestTraceRowsJSONFormatsTimestamps(t *testing.T) {
	row := &queryv1.Row{
		Columns: []string{"trace_id", "start_time"},
		Values:  []*queryv1.RowValue{strVal("aa"), intVal(1_704_067_200_000_000_000)},
	}
	b, err := TraceRowsJSON([]*queryv1.Row{row})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(b), "2024-01-01T00:00:00.000Z") {
		t.Fatalf("got %s", b)
	}
}

func TestGetStringNumberFormatting(t *testing.T) {
	row := &queryv1.Row{
		Columns: []string{"n"},
		Values:  []*queryv1.RowValue{intVal(7)},
	}
	s, ok := getString(row, "n")
	if !ok || s != strconv.Itoa(7) {
		t.Fatalf("got %q, %v", s, ok)
	}
}
