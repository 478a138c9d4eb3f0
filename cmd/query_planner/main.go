package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/go-query-planner/api"
	"github.com/gcbaptista/go-query-planner/config"
	"github.com/gcbaptista/go-query-planner/internal/engine"
	"github.com/gcbaptista/go-query-planner/internal/logger"
)

const version = "v1.0.0"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "query-planner",
		Short:        "Turns declarative filtered query specifications into execution plans",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newExplainCmd(&configPath),
		newVersionCmd(),
	)
	return root
}

func loadSettings(configPath string) (config.PlannerSettings, *slog.Logger, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return config.PlannerSettings{}, nil, err
	}
	logger.Init(logger.Config{Level: settings.LogLevel, Format: settings.LogFormat, Output: os.Stderr})
	return settings, logger.Get(), nil
}

func newServeCmd(configPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, log, err := loadSettings(*configPath)
			if err != nil {
				return err
			}
			if port != "" {
				settings.Port = port
			}

			gin.SetMode(gin.ReleaseMode)
			planner := engine.NewEngine(settings, log)
			server := &http.Server{
				Addr:              ":" + settings.Port,
				Handler:           api.NewRouter(planner, settings, log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("starting server", "port", settings.Port, "filter_cache_size", settings.FilterCacheSize)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to run the server on (overrides config)")
	return cmd
}

func newExplainCmd(configPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "explain [file]",
		Short: "Plan a query read from a file, or from stdin when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output %q (must be json or yaml)", output)
			}

			settings, log, err := loadSettings(*configPath)
			if err != nil {
				return err
			}

			source, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			result, err := engine.NewEngine(settings, log).Plan(source)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), output, result)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")
	return cmd
}

func readSource(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	return source, nil
}

func writeResult(w io.Writer, output string, result interface{}) error {
	if output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Go Query Planner %s\n", version)
		},
	}
}
