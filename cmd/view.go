/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/otelbridge/otel-bridge/internal/evalengine"
	queryv1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/tui"
)

var viewServer string

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Run a live terminal viewer over traces, logs, and metrics",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runView(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewServer, "server", "localhost:4319", "query API address")
}

func runView() error {
	client, closeFn, err := dialQueryService(viewServer)
	if err != nil {
		return err
	}
	defer closeFn()

	updates := make(chan tui.Line, 256)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go followTracesInto(ctx, client, updates)
	go followLogsInto(ctx, client, updates)
	go followMetricsInto(ctx, client, updates)

	program := tea.NewProgram(tui.New(updates))
	_, err = program.Run()
	return err
}

func followTracesInto(ctx context.Context, client queryv1.QueryServiceClient, updates chan<- tui.Line) {
	stream, err := client.FollowTraces(ctx, &queryv1.FollowTracesRequest{Request: &queryv1.QueryTracesRequest{}})
	if err != nil {
		return
	}
	for {
		resp, err := stream.Recv()
		if err == io.EOF || err != nil {
			return
		}
		for _, rs := range resp.ResourceSpans {
			for _, ss := range rs.ScopeSpans {
				for _, span := range ss.Spans {
					updates <- tui.Line{Pane: tui.PaneTraces, Text: fmt.Sprintf("%s  %s", span.Name, hexEncodeID(span.SpanId))}
				}
			}
		}
	}
}

func followLogsInto(ctx context.Context, client queryv1.QueryServiceClient, updates chan<- tui.Line) {
	stream, err := client.FollowLogs(ctx, &queryv1.FollowLogsRequest{Request: &queryv1.QueryLogsRequest{}})
	if err != nil {
		return
	}
	for {
		resp, err := stream.Recv()
		if err == io.EOF || err != nil {
			return
		}
		for _, rl := range resp.ResourceLogs {
			for _, sl := range rl.ScopeLogs {
				for _, rec := range sl.LogRecords {
					body := evalengine.ExtractAnyValueString(rec.Body)
					updates <- tui.Line{Pane: tui.PaneLogs, Text: fmt.Sprintf("[%s] %s", rec.SeverityText, body)}
				}
			}
		}
	}
}

func followMetricsInto(ctx context.Context, client queryv1.QueryServiceClient, updates chan<- tui.Line) {
	stream, err := client.FollowMetrics(ctx, &queryv1.FollowMetricsRequest{Request: &queryv1.QueryMetricsRequest{}})
	if err != nil {
		return
	}
	for {
		resp, err := stream.Recv()
		if err == io.EOF || err != nil {
			return
		}
		for _, rm := range resp.ResourceMetrics {
			for _, sm := range rm.ScopeMetrics {
				for _, m := range sm.Metrics {
					updates <- tui.Line{Pane: tui.PaneMetrics, Text: m.Name}
				}
			}
		}
	}
}

func hexEncodeID(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0x0f]
	}
	return string(out)
}
