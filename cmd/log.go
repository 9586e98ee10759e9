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
	"github.com/otelbridge/otel-bridge/internal/timespec"
)

var logServer string
var logService string
var logSeverity string
var logAttributes []string
var logLimit int
var logFormat string
var logFollow bool
var logSince string
var logUntil string

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Query or follow logs",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runLog(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVar(&logServer, "server", "localhost:4319", "query API address")
	logCmd.Flags().StringVar(&logService, "service", "", "filter by service name")
	logCmd.Flags().StringVar(&logSeverity, "severity", "", "minimum severity (ordinal comparison, e.g. INFO)")
	logCmd.Flags().StringArrayVar(&logAttributes, "attribute", nil, "filter by attribute, key=value (repeatable)")
	logCmd.Flags().IntVar(&logLimit, "limit", 100, "maximum resource log batches to return")
	logCmd.Flags().StringVar(&logFormat, "format", "text", "output format: text, jsonl, csv")
	logCmd.Flags().BoolVar(&logFollow, "follow", false, "stream new matching logs as they arrive")
	logCmd.Flags().StringVar(&logSince, "since", "", "only include logs at or after this time (relative or RFC3339)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "only include logs at or before this time (relative or RFC3339)")
}

func runLog() error {
	format, err := cliformat.ParseFormat(logFormat)
	if err != nil {
		return err
	}

	startNs, endNs, err := resolveTimeRange(logSince, logUntil)
	if err != nil {
		return err
	}

	sql := sqlquery.LogFlagsToSQL(logService, logSeverity, parseAttributeFlags(logAttributes), logLimit, startNs, endNs)

	client, closeFn, err := dialQueryService(logServer)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()

	if !logFollow {
		resp, err := client.SqlQuery(ctx, &queryv1.SqlQueryRequest{Sql: sql})
		if err != nil {
			return err
		}
		return printLogOutput(os.Stdout, format, resp.Rows, true)
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
		if err := printLogOutput(os.Stdout, format, resp.Rows, !printedHeader); err != nil {
			return err
		}
		printedHeader = true
	}
}

// printLogOutput prints rows in one of the three formats the log/metrics
// commands support: jsonl, csv, or text. These commands reject json; the
// pretty JSON array is printed by the trace and sql/follow-sql commands.
func printLogOutput(w io.Writer, format cliformat.Format, rows []*queryv1.Row, header bool) error {
	switch format {
	case cliformat.FormatJSONL:
		return cliformat.PrintRowsJSONL(w, rows)
	case cliformat.FormatCSV:
		return cliformat.PrintRowsCSV(w, rows, header)
	case cliformat.FormatJSON:
		return fmt.Errorf("format %q is not supported for log queries (use text, jsonl, or csv)", format)
	default:
		cliformat.PrintLogRowsText(w, rows)
		return nil
	}
}

func resolveTimeRange(since, until string) (uint64, uint64, error) {
	var startNs, endNs uint64
	var err error
	if since != "" {
		startNs, err = timespec.ParseNow(since)
		if err != nil {
			return 0, 0, fmt.Errorf("--since: %w", err)
		}
	}
	if until != "" {
		endNs, err = timespec.ParseNow(until)
		if err != nil {
			return 0, 0, fmt.Errorf("--until: %w", err)
		}
	}
	return startNs, endNs, nil
}

