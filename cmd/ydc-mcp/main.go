package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/young1lin/ydc-mcp/internal/config"
	"github.com/young1lin/ydc-mcp/internal/handler"
	"github.com/young1lin/ydc-mcp/internal/storage"
	"github.com/young1lin/ydc-mcp/internal/upstream"
	"github.com/young1lin/ydc-mcp/pkg/logger"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
)

var (
	cfgFile   string
	port      int
	transport string
	showVer   bool
)

var rootCmd = &cobra.Command{
	Use:   "ydc-mcp",
	Short: "MCP server for You.com search, contents and agent APIs",
	Long: heredoc.Doc(`
		An MCP server exposing You.com web search, page content extraction
		and the Express agent as tools.

		The API key is read from YDC_API_KEY. Over HTTP, each request may
		carry its own key as a Bearer token instead.
	`),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVer {
			fmt.Printf("ydc-mcp %s (built %s)\n", Version, BuildDate)
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if port > 0 {
			cfg.Server.Port = port
		}

		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		defer logger.Sync()

		return serve(cfg)
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools this server exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		endpoints := upstream.NewEndpoints(&cfg.Upstream)

		table := uitable.New()
		table.MaxColWidth = 60
		table.AddRow("NAME", "TITLE", "ENDPOINT", "AUTH")
		for _, t := range handler.Catalog() {
			info := t.Info()
			ep := endpoints[info.Capability]
			auth := ep.Auth.Header
			if ep.Auth.Scheme != "" {
				auth += " (" + ep.Auth.Scheme + ")"
			}
			table.AddRow(info.Name, info.Title, ep.Method+" "+ep.URL, auth)
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "listen port for the http transport (overrides config)")
	rootCmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "transport: stdio or http")
	rootCmd.Flags().BoolVarP(&showVer, "version", "v", false, "show version")
	rootCmd.AddCommand(toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	if cfg.APIKey == "" && transport == "stdio" {
		logger.Warn("YDC_API_KEY is not set; tool calls will fail until it is provided")
	}

	var journal *storage.Journal
	var recorder handler.Recorder
	if cfg.Journal.Path != "" {
		j, err := storage.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("opening invocation journal: %w", err)
		}
		defer j.Close()
		journal, recorder = j, j

		if cfg.Journal.MaxAge > 0 {
			ctx, stop := context.WithCancel(context.Background())
			defer stop()
			go j.Retain(ctx,
				time.Duration(cfg.Journal.MaxAge)*time.Second,
				time.Duration(cfg.Journal.PruneInterval)*time.Second)
		}
	}

	client := upstream.NewClient(time.Duration(cfg.Upstream.Timeout) * time.Second)
	orchestrator := handler.NewOrchestrator(cfg, Version, client, recorder)
	mcpServer := handler.NewMCPServer(orchestrator, Version, cfg.APIKey)

	logger.Info("starting server",
		zap.String("version", Version),
		zap.String("transport", transport),
		zap.Int("tools", len(orchestrator.Tools())),
	)

	switch transport {
	case "stdio":
		return server.ServeStdio(mcpServer)
	case "http":
		var reader handler.JournalReader
		if journal != nil {
			reader = journal
		}
		return startHTTPServer(cfg, handler.NewHTTPHandler(mcpServer, Version, reader))
	default:
		return fmt.Errorf("unknown transport %q (want stdio or http)", transport)
	}
}

func startHTTPServer(cfg *config.Config, h http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Sugar.Infof("MCP endpoint: http://%s/mcp, health: http://%s/mcp-health", srv.Addr, srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}
