// Package enginecfg resolves the effective engine configuration for CLI
// commands: config.toml values merged with defaults, plus filesystem
// defaults that only a command invocation can decide (such as where the
// local sqlite vector store lives).
package enginecfg

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/reelstack/reelqa/pkg/config"
	"github.com/reelstack/reelqa/pkg/dotdir"
	"github.com/reelstack/reelqa/pkg/logger"
)

const vectorStoreFile = "reelqa.sqlite"

// Load reads the config for the given .reelqa/ directory override and
// fills in the sqlite vector store path when none is configured.
func Load(configDir string) (*config.Config, error) {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if needsVectorPath(cfg) {
		target, err := dotdir.NewManager().Target(configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving vector store path: %w", err)
		}
		cfg.VectorStore.Target = filepath.Join(target, vectorStoreFile)
	}

	return cfg, nil
}

// NewLogger returns a CLI logger: silent unless debug is set, so command
// output stays clean while the engine still logs when asked to.
func NewLogger(debug bool) *slog.Logger {
	if !debug {
		return logger.Nop()
	}
	return logger.New(logger.WithDebug(true), logger.WithPretty(true))
}

func needsVectorPath(cfg *config.Config) bool {
	if cfg.VectorStore.Target != "" {
		return false
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.VectorStore.Provider))
	return provider == "" || provider == "sqlite"
}
