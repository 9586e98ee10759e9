package otlpingest

import (
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	logspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	tracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"github.com/otelbridge/otel-bridge/internal/store"
)

// HTTPServer serves the OTLP/HTTP ingest endpoints (POST /v1/traces,
// /v1/logs, /v1/metrics), accepting both application/x-protobuf (the OTLP
// spec's required content type) and application/json via grpc-gateway's
// JSONPb marshaler, which already knows how to unmarshal OTLP's proto3 JSON
// mapping for oneofs like AnyValue.
type HTTPServer struct {
	addr string
	log  *zap.Logger
	st   *store.Store
	srv  *http.Server
}

var jsonMarshaler = &runtime.JSONPb{}

func NewHTTP(addr string, st *store.Store, log *zap.Logger) *HTTPServer {
	mux := http.NewServeMux()
	h := &HTTPServer{addr: addr, log: log, st: st}

	mux.HandleFunc("/v1/traces", h.handleTraces)
	mux.HandleFunc("/v1/logs", h.handleLogs)
	mux.HandleFunc("/v1/metrics", h.handleMetrics)

	h.srv = &http.Server{Addr: addr, Handler: mux}
	return h
}

// Listen binds the HTTP ingest port without serving on it, so a caller can
// bind every listener for a server up front and bail out before any of them
// starts accepting traffic if a later bind fails.
func (h *HTTPServer) Listen() (net.Listener, error) {
	h.log.Info("binding otlp http ingest", zap.String("addr", h.addr))
	return net.Listen("tcp", h.addr)
}

// Serve starts accepting on lis in a background goroutine. Call Listen
// first; Serve never binds.
func (h *HTTPServer) Serve(lis net.Listener) {
	go func() {
		if err := h.srv.Serve(lis); err != nil && err != http.ErrServerClosed {
			h.log.Error("otlp http ingest stopped serving", zap.Error(err))
		}
	}()
}

func (h *HTTPServer) Stop() error {
	return h.srv.Close()
}

func (h *HTTPServer) handleTraces(w http.ResponseWriter, r *http.Request) {
	var req tracepb.ExportTraceServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.st.InsertTraces(req.ResourceSpans)
	writeResponse(w, r, &tracepb.ExportTraceServiceResponse{})
}

func (h *HTTPServer) handleLogs(w http.ResponseWriter, r *http.Request) {
	var req logspb.ExportLogsServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.st.InsertLogs(req.ResourceLogs)
	writeResponse(w, r, &logspb.ExportLogsServiceResponse{})
}

func (h *HTTPServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var req metricspb.ExportMetricsServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.st.InsertMetrics(req.ResourceMetrics)
	writeResponse(w, r, &metricspb.ExportMetricsServiceResponse{})
}

func decodeBody(w http.ResponseWriter, r *http.Request, msg proto.Message) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("read body: %v", err), http.StatusBadRequest)
		return false
	}
	defer r.Body.Close()

	var decodeErr error
	if isJSONContentType(r.Header.Get("Content-Type")) {
		decodeErr = jsonMarshaler.Unmarshal(body, msg)
	} else {
		decodeErr = proto.Unmarshal(body, msg)
	}
	if decodeErr != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", decodeErr), http.StatusBadRequest)
		return false
	}
	return true
}

func writeResponse(w http.ResponseWriter, r *http.Request, msg proto.Message) {
	if isJSONContentType(r.Header.Get("Content-Type")) {
		body, err := jsonMarshaler.Marshal(msg)
		if err != nil {
			http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}
	body, err := proto.Marshal(msg)
	if err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.Write(body)
}

func isJSONContentType(contentType string) bool {
	return contentType == "application/json" || contentType == "text/json"
}
