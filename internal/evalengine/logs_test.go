package evalengine

import (
	"testing"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"

	"github.com/otelbridge/otel-bridge/internal/store"
)

func makeLog(serviceName, severity, body string, attrs []*commonpb.KeyValue, timeNs uint64) *logspb.ResourceLogs {
	severityNumber, ok := store.SeverityTextToNumber(severity)
	if !ok {
		severityNumber = 0
	}
	var bodyVal *commonpb.AnyValue
	if body != "" {
		bodyVal = &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: body}}
	}
	return &logspb.ResourceLogs{
		Resource: traceResource(serviceName),
		ScopeLogs: []*logspb.ScopeLogs{{
			LogRecords: []*logspb.LogRecord{{
				TimeUnixNano:   timeNs,
				SeverityNumber: logspb.SeverityNumber(severityNumber),
				SeverityText:   severity,
				Body:           bodyVal,
				Attributes:     attrs,
			}},
		}},
	}
}

func setupLogStore() *store.Store {
	s := store.New(100)
	s.InsertLogs([]*logspb.ResourceLogs{
		makeLog("frontend", "INFO", "request started", nil, 1000),
		makeLog("backend", "ERROR", "db connection failed", []*commonpb.KeyValue{kvString("db", "postgres")}, 2000),
		makeLog("frontend", "WARN", "slow response", nil, 3000),
		makeLog("backend", "DEBUG", "query executed", []*commonpb.KeyValue{kvString("db", "redis")}, 4000),
	})
	return s
}

func TestEvalLogsNoFilter(t *testing.T) {
	s := setupLogStore()
	result := EvalLogs(s, mustParse(t, "SELECT * FROM logs"))
	if len(result) != 4 {
		t.Fatalf("expected 4, got %d", len(result))
	}
}

func TestEvalLogsFilterByServiceName(t *testing.T) {
	s := setupLogStore()
	result := EvalLogs(s, mustParse(t, "SELECT * FROM logs WHERE service_name = 'frontend'"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalLogsFilterBySeverityGe(t *testing.T) {
	s := setupLogStore()
	result := EvalLogs(s, mustParse(t, "SELECT * FROM logs WHERE severity >= 'WARN'"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalLogsFilterBySeverityEq(t *testing.T) {
	s := setupLogStore()
	result := EvalLogs(s, mustParse(t, "SELECT * FROM logs WHERE severity = 'ERROR'"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}

func TestEvalLogsFilterBodyLike(t *testing.T) {
	s := setupLogStore()
	result := EvalLogs(s, mustParse(t, "SELECT * FROM logs WHERE body LIKE '%connection%'"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}

func TestEvalLogsFilterByAttribute(t *testing.T) {
	s := setupLogStore()
	result := EvalLogs(s, mustParse(t, "SELECT * FROM logs WHERE attributes['db'] = 'postgres'"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}

func TestEvalLogsWithLimit(t *testing.T) {
	s := setupLogStore()
	result := EvalLogs(s, mustParse(t, "SELECT * FROM logs LIMIT 2"))
	if len(result) != 2 {
		t.Fatalf("expected 2, got %d", len(result))
	}
}

func TestEvalLogsFilterAndSeverityService(t *testing.T) {
	s := setupLogStore()
	result := EvalLogs(s, mustParse(t, "SELECT * FROM logs WHERE service_name = 'backend' AND severity >= 'ERROR'"))
	if len(result) != 1 {
		t.Fatalf("expected 1, got %d", len(result))
	}
}

func TestEvalLogsFilterBodyIsNotNull(t *testing.T) {
	s := setupLogStore()
	result := EvalLogs(s, mustParse(t, "SELECT * FROM logs WHERE body IS NOT NULL"))
	if len(result) != 4 {
		t.Fatalf("expected 4, got %d", len(result))
	}
}
