/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/otelbridge/otel-bridge/cmd"

func main() {
	cmd.Execute()
}
