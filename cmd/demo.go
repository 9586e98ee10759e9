/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/otelbridge/otel-bridge/internal/demogen"
	"github.com/otelbridge/otel-bridge/internal/otlpingest"
	"github.com/otelbridge/otel-bridge/internal/queryservice"
	queryv1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/store"
)

var demoGrpcAddr string
var demoHttpAddr string
var demoQueryAddr string
var demoServices int

// demoCmd starts a server pre-populated with synthetic traces, logs, and
// metrics, for kicking the tires without a real OTLP producer.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the server pre-populated with synthetic telemetry",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDemo(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoGrpcAddr, "grpc-addr", "0.0.0.0:4317", "address for the OTLP gRPC ingest endpoint")
	demoCmd.Flags().StringVar(&demoHttpAddr, "http-addr", "0.0.0.0:4318", "address for the OTLP HTTP/protobuf ingest endpoint")
	demoCmd.Flags().StringVar(&demoQueryAddr, "query-addr", "0.0.0.0:4319", "address for the query gRPC API")
	demoCmd.Flags().IntVar(&demoServices, "services", 3, "number of synthetic services to generate")
}

func runDemo() error {
	zl, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer zl.Sync()

	st := store.New(1000)

	cfg := demogen.DefaultConfig()
	cfg.Services = demoServices
	traces, logs, metrics := demogen.Generate(st, cfg)
	zl.Info("generated synthetic telemetry",
		zap.Int("traces", traces), zap.Int("logs", logs), zap.Int("metrics", metrics))

	grpcIngest, err := otlpingest.New(demoGrpcAddr, st, zl)
	if err != nil {
		return err
	}
	httpIngest := otlpingest.NewHTTP(demoHttpAddr, st, zl)
	queryServer := grpc.NewServer()
	queryv1.RegisterQueryServiceServer(queryServer, queryservice.New(st, zl))

	// Bind every listener up front, atomically: a late port conflict on any
	// one of them must be discovered before any of the others starts
	// accepting traffic, not after gRPC ingest is already live.
	grpcLis, err := grpcIngest.Listen()
	if err != nil {
		return err
	}
	httpLis, err := httpIngest.Listen()
	if err != nil {
		grpcLis.Close()
		return err
	}
	queryLis, err := net.Listen("tcp", demoQueryAddr)
	if err != nil {
		httpLis.Close()
		grpcLis.Close()
		return err
	}

	grpcIngest.Serve(grpcLis)
	zl.Info("OTLP gRPC ingest listening", zap.String("addr", grpcIngest.Addr()))

	httpIngest.Serve(httpLis)
	zl.Info("OTLP HTTP ingest listening", zap.String("addr", demoHttpAddr))

	go func() {
		if err := queryServer.Serve(queryLis); err != nil {
			zl.Error("query server stopped", zap.Error(err))
		}
	}()
	zl.Info("query API listening", zap.String("addr", demoQueryAddr))

	fmt.Printf("demo server ready: try `otel-bridge log --server %s` or `otel-bridge view --server %s`\n", demoQueryAddr, demoQueryAddr)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT)
	sig := <-signalChan
	zl.Info("killed with signal", zap.String("signal", sig.String()))
	zl.Info("shutting down")

	queryServer.GracefulStop()
	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, httpIngest.Stop())
	grpcIngest.Stop()
	return shutdownErr
}
