/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	queryv1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
)

var clearServer string
var clearTraces bool
var clearLogs bool
var clearMetrics bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear stored traces, logs, and/or metrics",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runClear(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().StringVar(&clearServer, "server", "localhost:4319", "query API address")
	clearCmd.Flags().BoolVar(&clearTraces, "traces", false, "clear stored traces")
	clearCmd.Flags().BoolVar(&clearLogs, "logs", false, "clear stored logs")
	clearCmd.Flags().BoolVar(&clearMetrics, "metrics", false, "clear stored metrics")
}

func runClear() error {
	if !clearTraces && !clearLogs && !clearMetrics {
		fmt.Println("No target specified. Use --traces, --logs, and/or --metrics.")
		return nil
	}

	client, closeFn, err := dialQueryService(clearServer)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()

	if clearTraces {
		if _, err := client.ClearTraces(ctx, &queryv1.ClearTracesRequest{}); err != nil {
			return err
		}
		fmt.Println("Traces cleared.")
	}
	if clearLogs {
		if _, err := client.ClearLogs(ctx, &queryv1.ClearLogsRequest{}); err != nil {
			return err
		}
		fmt.Println("Logs cleared.")
	}
	if clearMetrics {
		if _, err := client.ClearMetrics(ctx, &queryv1.ClearMetricsRequest{}); err != nil {
			return err
		}
		fmt.Println("Metrics cleared.")
	}

	return nil
}
