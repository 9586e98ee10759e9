// Package otlp builds the Resource/InstrumentationScope envelopes shared by
// every synthetic-data producer in this repo (currently internal/demogen;
// the OTLP ingest path itself receives resources/scopes from real
// producers over the wire and never constructs its own).
package otlp

import (
	"os"

	"github.com/google/uuid"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	otlpCommon "go.opentelemetry.io/proto/otlp/common/v1"
	otlpRes "go.opentelemetry.io/proto/otlp/resource/v1"
)

// NewResource builds a Resource for a synthetic service instance. instanceID
// identifies the specific process among replicas of service; pass
// uuid.NewString() when no natural identity already exists.
func NewResource(service, instanceID string) *otlpRes.Resource {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}

	return &otlpRes.Resource{
		Attributes: []*otlpCommon.KeyValue{
			{
				Key:   string(semconv.ServiceNameKey),
				Value: &otlpCommon.AnyValue{Value: &otlpCommon.AnyValue_StringValue{StringValue: service}},
			},
			{
				Key:   string(semconv.ServiceInstanceIDKey),
				Value: &otlpCommon.AnyValue{Value: &otlpCommon.AnyValue_StringValue{StringValue: instanceID}},
			},
			{
				Key:   string(semconv.HostNameKey),
				Value: &otlpCommon.AnyValue{Value: &otlpCommon.AnyValue_StringValue{StringValue: host}},
			},
		},
	}
}

// NewInstanceID mints a fresh synthetic instance identity.
func NewInstanceID() string {
	return uuid.NewString()
}

// NewScope builds an InstrumentationScope for a named synthetic producer.
func NewScope(name, version string) *otlpCommon.InstrumentationScope {
	return &otlpCommon.InstrumentationScope{
		Name:    name,
		Version: version,
		Attributes: []*otlpCommon.KeyValue{
			{
				Key:   string(semconv.TelemetrySDKNameKey),
				Value: &otlpCommon.AnyValue{Value: &otlpCommon.AnyValue_StringValue{StringValue: "go"}},
			},
		},
	}
}
