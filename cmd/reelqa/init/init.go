// Package initcmder provides the init command for initializing a local .reelqa
// directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelstack/reelqa/pkg/config"
)

const (
	dirName = ".reelqa"

	remoteFetchTimeout = 10 * time.Second
)

const initLongDesc string = `Initialize a new .reelqa/ directory in the current working directory.

Creates a local .reelqa/ directory that takes precedence over the default
~/.reelqa/ directory for configuration, session state, and vector store
files.

A config.toml is written with default values. Pass --preset to start from
a provider preset ("ollama" or "openai") or from a remote config.toml URL.

Examples:
  reelqa init
  reelqa init --preset openai
  reelqa init --preset https://example.com/team-config.toml`

const initShortDesc string = "Initialize a local .reelqa/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(preset)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "provider preset name or remote config.toml URL")

	return cmd
}

func runInit(preset string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	alreadyInitialized := err == nil && info.IsDir()

	if !alreadyInitialized {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .reelqa directory: %w", err)
		}
	}

	cfg, err := resolvePreset(preset)
	if err != nil {
		return err
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	_, statErr := os.Stat(configPath)
	configExists := statErr == nil

	// A bare init never clobbers an existing config; an explicit
	// preset always replaces it.
	if !configExists || preset != "" {
		cfger, err := config.NewConfiger(dir)
		if err != nil {
			return fmt.Errorf("preparing config: %w", err)
		}
		if err := cfger.SaveConfig(cfg); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	}

	if alreadyInitialized {
		fmt.Printf("Already initialized: %s\n", dir)
		return nil
	}

	fmt.Printf("Initialized .reelqa directory: %s\n", dir)
	return nil
}

// resolvePreset turns the --preset value into a Config. An empty value
// yields the defaults, a known preset name yields that preset, and an
// http(s) URL is fetched and parsed as TOML.
func resolvePreset(preset string) (*config.Config, error) {
	if preset == "" {
		return config.NewDefaultConfig(), nil
	}

	if strings.HasPrefix(preset, "http://") || strings.HasPrefix(preset, "https://") {
		return fetchRemoteConfig(preset)
	}

	return config.PresetConfig(preset)
}

func fetchRemoteConfig(rawURL string) (*config.Config, error) {
	client := &http.Client{Timeout: remoteFetchTimeout}

	resp, err := client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
