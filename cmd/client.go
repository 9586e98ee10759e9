/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/otelbridge/otel-bridge/internal/sqlquery"
	queryv1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
)

// dialQueryService connects to the query API at addr, the same plain-text
// local dial the teacher's worker uses to reach its OTLP collector.
func dialQueryService(addr string) (queryv1.QueryServiceClient, func(), error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial query service at %s: %w", addr, err)
	}
	return queryv1.NewQueryServiceClient(conn), func() { conn.Close() }, nil
}

// parseAttributeFlags turns repeated "key=value" --attribute flags into
// sqlquery.KV filters, skipping anything without an '='.
func parseAttributeFlags(raw []string) []sqlquery.KV {
	var kvs []sqlquery.KV
	for _, a := range raw {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			continue
		}
		kvs = append(kvs, sqlquery.KV{Key: k, Value: v})
	}
	return kvs
}

