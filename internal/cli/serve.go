package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/stablegate/internal/pipeline"
	"github.com/danielpatrickdp/stablegate/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway HTTP server",
	Long:  "Runs the admission pipeline behind an HTTP API with the periodic self-tuning task.\nSupports hot-reload of the config file.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down gateway...")
		cancel()
	}()

	tuner := pipeline.NewTuner(a.pipeline, pipeline.TunerConfig{
		Interval:       time.Duration(a.cfg.TuneInterval),
		DrainThreshold: a.cfg.DrainThreshold,
	})
	go tuner.Run(ctx)

	srv := server.New(a.cfg, server.Deps{
		Pipeline:  a.pipeline,
		Converter: a.converter,
		Enforcer:  a.enforcer,
		Heuristic: a.heuristic,
	})

	if configPath != "" {
		go func() {
			if err := srv.WatchConfig(ctx, configPath); err != nil {
				fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
			}
		}()
	}

	return srv.Run(ctx)
}
