/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/otelbridge/otel-bridge/internal/cliformat"
	"github.com/otelbridge/otel-bridge/internal/query"
	queryv1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/sqlquery"
)

var sqlServer string
var sqlFormat string

var sqlCmd = &cobra.Command{
	Use:   "sql [query]",
	Short: "Run a raw SQL query against the traces, logs, or metrics table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSQL(args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

var followSqlCmd = &cobra.Command{
	Use:   "follow-sql [query]",
	Short: "Stream new rows matching a raw SQL query",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFollowSQL(args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(followSqlCmd)

	sqlCmd.Flags().StringVar(&sqlServer, "server", "localhost:4319", "query API address")
	sqlCmd.Flags().StringVar(&sqlFormat, "format", "text", "output format: text, jsonl, csv, json")

	followSqlCmd.Flags().StringVar(&sqlServer, "server", "localhost:4319", "query API address")
	followSqlCmd.Flags().StringVar(&sqlFormat, "format", "text", "output format: text, jsonl, csv, json")
}

// tableForSQL parses sql only to discover which virtual table it targets,
// so the text-format renderer can be picked before execution.
func tableForSQL(sql string) query.TargetTable {
	q, err := sqlquery.Parse(sql)
	if err != nil {
		return query.TargetLogs
	}
	return q.Table
}

func runSQL(sql string) error {
	format, err := cliformat.ParseFormat(sqlFormat)
	if err != nil {
		return err
	}

	client, closeFn, err := dialQueryService(sqlServer)
	if err != nil {
		return err
	}
	defer closeFn()

	resp, err := client.SqlQuery(context.Background(), &queryv1.SqlQueryRequest{Sql: sql})
	if err != nil {
		return err
	}

	return printSQLRows(os.Stdout, format, tableForSQL(sql), resp.Rows, true)
}

func runFollowSQL(sql string) error {
	format, err := cliformat.ParseFormat(sqlFormat)
	if err != nil {
		return err
	}

	client, closeFn, err := dialQueryService(sqlServer)
	if err != nil {
		return err
	}
	defer closeFn()

	table := tableForSQL(sql)
	stream, err := client.FollowSql(context.Background(), &queryv1.FollowSqlRequest{Sql: sql})
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
		if err := printSQLRows(os.Stdout, format, table, resp.Rows, !printedHeader); err != nil {
			return err
		}
		printedHeader = true
	}
}

// printSQLRows dispatches by format first (jsonl/csv/json apply uniformly
// across tables for the generic sql/follow-sql commands), falling back to
// the table-specific text renderer via cliformat.RowsForTable.
func printSQLRows(w io.Writer, format cliformat.Format, table query.TargetTable, rows []*queryv1.Row, header bool) error {
	switch format {
	case cliformat.FormatJSONL:
		return cliformat.PrintRowsJSONL(w, rows)
	case cliformat.FormatCSV:
		return cliformat.PrintRowsCSV(w, rows, header)
	case cliformat.FormatJSON:
		b, err := cliformat.TraceRowsJSON(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	default:
		cliformat.RowsForTable(w, table, rows)
		return nil
	}
}
