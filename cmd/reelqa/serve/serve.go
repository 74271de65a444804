// Package servecmder provides the serve command for running the ReelQA HTTP
// API and MCP server.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/reelstack/reelqa/api"
	"github.com/reelstack/reelqa/api/mcp"
	"github.com/reelstack/reelqa/cmd/reelqa/enginecfg"
	"github.com/reelstack/reelqa/pkg/config"
	"github.com/reelstack/reelqa/pkg/logger"
	"github.com/reelstack/reelqa/pkg/rag"
	ragutils "github.com/reelstack/reelqa/pkg/rag/utils"
)

const serveLongDesc string = `Run the ReelQA HTTP API and MCP server.

Serves question answering, semantic search, indexing, and pipeline
inspection endpoints, plus an MCP endpoint at /mcp for agent clients.

When the transcript provider is "file", pass --watch to reindex a
transcript whenever its file changes on disk.

Examples:
  reelqa serve
  reelqa serve --listen :9090
  reelqa serve --watch
  reelqa serve --log-file ./reelqa.log`

const serveShortDesc string = "Run the ReelQA API server"

type serveCommander struct {
	listen    string
	watch     bool
	logFile   string
	configDir string
	debug     bool

	logger *slog.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("listen") {
				cmder.listen = cfg.API.Listen
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, err = cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}
			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", defaults.API.Listen, "Address for the API server to listen on")
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Reindex transcripts when their files change (file provider only)")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	log, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	c.logger = log

	cfg, err := enginecfg.Load(c.configDir)
	if err != nil {
		return err
	}

	engine, err := ragutils.NewEngine(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	apiConfig := api.Config{
		ListenAddr: c.listen,
		Embedder:   engine.Embedder(),
		Index:      engine.Index(),
	}
	apiServer := api.NewServer(apiConfig, engine, c.logger)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Embedder: engine.Embedder(),
		Index:    engine.Index(),
		Asker:    engine,
		Logger:   c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}
	apiServer.MountMCP(mcpServer.Handler())

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	if c.watch {
		if err := c.startWatcher(watchCtx, cfg, engine); err != nil {
			return err
		}
	}

	c.logger.Info("starting api server",
		slog.String("api_addr", c.listen),
		slog.String("vector_store", cfg.VectorStore.Provider),
		slog.String("generation_model", cfg.Generation.Model),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}

// newLogger builds the server logger: pretty terminal output, and when
// --log-file is set, the same records fanned out as JSON to the file.
func (c *serveCommander) newLogger() (*slog.Logger, func(), error) {
	terminal := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))
	if c.logFile == "" {
		return terminal, func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	file := logger.New(logger.WithDebug(c.debug), logger.WithJSON(true), logger.WithWriter(f))
	return logger.Multi(terminal, file), func() { f.Close() }, nil
}

// startWatcher watches the transcript directory and reindexes a video
// whenever its transcript file is written.
func (c *serveCommander) startWatcher(ctx context.Context, cfg *config.Config, engine *rag.Engine) error {
	provider := strings.ToLower(strings.TrimSpace(cfg.Transcript.Provider))
	if provider != "file" {
		return fmt.Errorf("--watch requires transcript.provider = \"file\" (got %q)", cfg.Transcript.Provider)
	}
	if cfg.Transcript.Target == "" {
		return fmt.Errorf("--watch requires transcript.target to point at a transcript directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}

	if err := watcher.Add(cfg.Transcript.Target); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", cfg.Transcript.Target, err)
	}

	c.logger.Info("watching transcript directory", slog.String("dir", cfg.Transcript.Target))

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				videoID, ok := videoIDFromPath(event.Name)
				if !ok {
					continue
				}

				chunks, found, err := engine.IndexVideo(ctx, videoID)
				if err != nil {
					c.logger.Error("reindexing transcript",
						slog.String("video_id", videoID),
						slog.Any("error", err),
					)
					continue
				}
				if !found {
					continue
				}
				c.logger.Info("reindexed transcript",
					slog.String("video_id", videoID),
					slog.Int("chunks", chunks),
				)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Error("transcript watcher", slog.Any("error", err))
			}
		}
	}()

	return nil
}

// videoIDFromPath maps a transcript file path to its video ID. Only .txt
// files in the watched directory count.
func videoIDFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if filepath.Ext(base) != ".txt" {
		return "", false
	}
	id := strings.TrimSuffix(base, ".txt")
	if id == "" || strings.HasPrefix(base, ".") {
		return "", false
	}
	return id, true
}
