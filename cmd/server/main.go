// package main
//
// This is the lintx509 inspection server entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/certcat/lintx509/config"
	"github.com/certcat/lintx509/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var (
	configPath string
	listen     string
)

var serverCmd = &cobra.Command{
	Use:          "lintx509-server",
	Short:        "Run the server",
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	serverCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	serverCmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default from config)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s, err := server.New(cfg, logger, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx, cfg.Server.Listen)
}

func main() {
	err := serverCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
