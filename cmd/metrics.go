/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/otelbridge/otel-bridge/internal/cliformat"
	queryv1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/sqlquery"
)

var metricsServer string
var metricsService string
var metricsName string
var metricsLimit int
var metricsFormat string
var metricsFollow bool
var metricsSince string
var metricsUntil string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Query or follow metrics",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMetrics(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().StringVar(&metricsServer, "server", "localhost:4319", "query API address")
	metricsCmd.Flags().StringVar(&metricsService, "service", "", "filter by service name")
	metricsCmd.Flags().StringVar(&metricsName, "name", "", "filter by metric name")
	metricsCmd.Flags().IntVar(&metricsLimit, "limit", 100, "maximum resource metric batches to return")
	metricsCmd.Flags().StringVar(&metricsFormat, "format", "text", "output format: text, jsonl, csv")
	metricsCmd.Flags().BoolVar(&metricsFollow, "follow", false, "stream new matching metric points as they arrive")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "", "only include points at or after this time (relative or RFC3339)")
	metricsCmd.Flags().StringVar(&metricsUntil, "until", "", "only include points at or before this time (relative or RFC3339)")
}

func runMetrics() error {
	format, err := cliformat.ParseFormat(metricsFormat)
	if err != nil {
		return err
	}

	startNs, endNs, err := resolveTimeRange(metricsSince, metricsUntil)
	if err != nil {
		return err
	}

	sql := sqlquery.MetricFlagsToSQL(metricsService, metricsName, metricsLimit, startNs, endNs)

	client, closeFn, err := dialQueryService(metricsServer)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()

	if !metricsFollow {
		resp, err := client.SqlQuery(ctx, &queryv1.SqlQueryRequest{Sql: sql})
		if err != nil {
			return err
		}
		return printMetricOutput(os.Stdout, format, resp.Rows, true)
	}

	stream, err := client.FollowSql(ctx, &queryv1.FollowSqlRequest{Sql: sql})
	if err != nil {
		return err
	}
	printedHeader := false
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := printMetricOutput(os.Stdout, format, resp.Rows, !printedHeader); err != nil {
			return err
		}
		printedHeader = true
	}
}

func printMetricOutput(w io.Writer, format cliformat.Format, rows []*queryv1.Row, header bool) error {
	switch format {
	case cliformat.FormatJSONL:
		return cliformat.PrintRowsJSONL(w, rows)
	case cliformat.FormatCSV:
		return cliformat.PrintRowsCSV(w, rows, header)
	case cliformat.FormatJSON:
		return fmt.Errorf("format %q is not supported for metric queries (use text, jsonl, or csv)", format)
	default:
		cliformat.PrintMetricRowsText(w, rows)
		return nil
	}
}
