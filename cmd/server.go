/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/otelbridge/otel-bridge/internal/otlpingest"
	"github.com/otelbridge/otel-bridge/internal/queryservice"
	queryv1 "github.com/otelbridge/otel-bridge/internal/queryservice/v1"
	"github.com/otelbridge/otel-bridge/internal/store"
)

var serverGrpcAddr string
var serverHttpAddr string
var serverQueryAddr string
var serverMaxItems int
var serverNoTUI bool

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the OTLP ingest and query server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverGrpcAddr, "grpc-addr", "0.0.0.0:4317", "address for the OTLP gRPC ingest endpoint")
	serverCmd.Flags().StringVar(&serverHttpAddr, "http-addr", "0.0.0.0:4318", "address for the OTLP HTTP/protobuf ingest endpoint")
	serverCmd.Flags().StringVar(&serverQueryAddr, "query-addr", "0.0.0.0:4319", "address for the query gRPC API")
	serverCmd.Flags().IntVar(&serverMaxItems, "max-items", 1000, "maximum number of trace groups, resource log batches, and resource metric batches retained per signal")
	serverCmd.Flags().BoolVar(&serverNoTUI, "no-tui", false, "log that the server runs headless (the server never starts a TUI; use the view command)")
}

func runServer() error {
	zl, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer zl.Sync()

	st := store.New(serverMaxItems)

	grpcIngest, err := otlpingest.New(serverGrpcAddr, st, zl)
	if err != nil {
		return err
	}
	httpIngest := otlpingest.NewHTTP(serverHttpAddr, st, zl)
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
	queryLis, err := net.Listen("tcp", serverQueryAddr)
	if err != nil {
		httpLis.Close()
		grpcLis.Close()
		return err
	}

	grpcIngest.Serve(grpcLis)
	zl.Info("OTLP gRPC ingest listening", zap.String("addr", grpcIngest.Addr()))

	httpIngest.Serve(httpLis)
	zl.Info("OTLP HTTP ingest listening", zap.String("addr", serverHttpAddr))

	go func() {
		if err := queryServer.Serve(queryLis); err != nil {
			zl.Error("query server stopped", zap.Error(err))
		}
	}()
	zl.Info("query API listening", zap.String("addr", serverQueryAddr))

	if serverNoTUI {
		zl.Info("running headless (--no-tui)")
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(
		signalChan,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)

	sig := <-signalChan
	zl.Info("killed with signal", zap.String("signal", sig.String()))
	zl.Info("shutting down")

	queryServer.GracefulStop()
	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, httpIngest.Stop())
	grpcIngest.Stop()
	return shutdownErr
}
