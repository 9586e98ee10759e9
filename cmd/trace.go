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

var traceServer string
var traceService string
var traceID string
var traceAttributes []string
var traceLimit int
var traceFormat string

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Query traces",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTrace(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().StringVar(&traceServer, "server", "localhost:4319", "query API address")
	traceCmd.Flags().StringVar(&traceService, "service", "", "filter by service name")
	traceCmd.Flags().StringVar(&traceID, "trace-id", "", "filter by trace ID")
	traceCmd.Flags().StringArrayVar(&traceAttributes, "attribute", nil, "filter by attribute, key=value (repeatable)")
	traceCmd.Flags().IntVar(&traceLimit, "limit", 100, "maximum traces to return")
	traceCmd.Flags().StringVar(&traceFormat, "format", "text", "output format: text, json")
}

func runTrace() error {
	format, err := cliformat.ParseFormat(traceFormat)
	if err != nil {
		return err
	}
	if format != cliformat.FormatText && format != cliformat.FormatJSON {
		return fmt.Errorf("format %q is not supported for trace queries (use text or json)", format)
	}

	sql := sqlquery.TraceFlagsToSQL(traceService, traceID, parseAttributeFlags(traceAttributes), traceLimit, 0, 0)

	client, closeFn, err := dialQueryService(traceServer)
	if err != nil {
		return err
	}
	defer closeFn()

	resp, err := client.SqlQuery(context.Background(), &queryv1.SqlQueryRequest{Sql: sql})
	if err != nil {
		return err
	}

	return printTraceOutput(os.Stdout, format, resp.Rows)
}

func printTraceOutput(w io.Writer, format cliformat.Format, rows []*queryv1.Row) error {
	if format == cliformat.FormatJSON {
		b, err := cliformat.TraceRowsJSON(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	}
	cliformat.PrintTraceRowsText(w, rows)
	return nil
}
