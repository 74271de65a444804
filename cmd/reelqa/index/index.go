// Package indexcmder provides the index command for fetching, chunking,
// embedding, and indexing a video transcript.
package indexcmder

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelstack/reelqa/cmd/reelqa/enginecfg"
	"github.com/reelstack/reelqa/pkg/cliui"
	"github.com/reelstack/reelqa/pkg/config"
	"github.com/reelstack/reelqa/pkg/dotdir"
	ragutils "github.com/reelstack/reelqa/pkg/rag/utils"
)

const indexLongDesc string = `Index a video transcript for question answering.

Fetches the transcript for the given video ID, splits it into overlapping
chunks, embeds each chunk, and stores the vectors in the configured vector
store. Previously indexed content for the store is replaced.

Pass --file to index a local transcript file instead of fetching one.

Examples:
  reelqa index dQw4w9WgXcQ
  reelqa index my-talk --file ./transcript.txt
  reelqa index dQw4w9WgXcQ --chunk-size 500 --chunk-overlap 100
  reelqa index --clear`

const indexShortDesc string = "Index a video transcript"

type indexCommander struct {
	file      string
	clear     bool
	configDir string
	debug     bool
}

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index [video-id]",
		Short: indexShortDesc,
		Long:  indexLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, err = cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}

			if cmder.clear {
				return cmder.runClear(cmd)
			}
			if len(args) != 1 {
				return fmt.Errorf("a video-id is required unless --clear is given")
			}
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.file, "file", "f", "", "Path to a local transcript file to index")
	cmd.Flags().BoolVar(&cmder.clear, "clear", false, "Remove all indexed chunks and the saved session")
	cmd.Flags().Int(config.FlagChunkSize, 0, "Chunk size in characters")
	cmd.Flags().Int(config.FlagChunkOverlap, 0, "Chunk overlap in characters")

	return cmd
}

func (c *indexCommander) run(cmd *cobra.Command, videoID string) error {
	ctx := cmd.Context()

	cfg, err := enginecfg.Load(c.configDir)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed(config.FlagChunkSize) {
		cfg.Chunking.Size, _ = cmd.Flags().GetInt(config.FlagChunkSize)
	}
	if cmd.Flags().Changed(config.FlagChunkOverlap) {
		cfg.Chunking.Overlap, _ = cmd.Flags().GetInt(config.FlagChunkOverlap)
	}

	engine, err := ragutils.NewEngine(ctx, cfg, enginecfg.NewLogger(c.debug))
	if err != nil {
		return err
	}
	defer engine.Close()

	var chunks int
	found := true

	if err := cliui.Step(os.Stdout, fmt.Sprintf("Indexing transcript for %s", videoID), func() error {
		chunks, found, err = c.index(ctx, engine, videoID)
		return err
	}); err != nil {
		return err
	}

	if !found {
		fmt.Printf("\n  %s No transcript found for %s\n\n",
			cliui.FailMark,
			cliui.ValueStyle.Render(videoID),
		)
		return nil
	}

	if err := c.saveSession(videoID, chunks); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("\n  %s Indexed %s chunks %s\n\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(strconv.Itoa(chunks)),
		cliui.DimStyle.Render(fmt.Sprintf("from %s", videoID)),
	)
	return nil
}

type indexer interface {
	IndexVideo(ctx context.Context, videoID string) (int, bool, error)
	IndexText(ctx context.Context, videoID, text string) (int, error)
}

func (c *indexCommander) index(ctx context.Context, engine indexer, videoID string) (int, bool, error) {
	if c.file == "" {
		return engine.IndexVideo(ctx, videoID)
	}

	data, err := os.ReadFile(c.file)
	if err != nil {
		return 0, false, fmt.Errorf("reading transcript file: %w", err)
	}

	chunks, err := engine.IndexText(ctx, videoID, string(data))
	return chunks, err == nil, err
}

func (c *indexCommander) runClear(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := enginecfg.Load(c.configDir)
	if err != nil {
		return err
	}

	engine, err := ragutils.NewEngine(ctx, cfg, enginecfg.NewLogger(c.debug))
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Clear(ctx); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	if err := dotdir.NewManager().ClearSession(c.configDir); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	fmt.Printf("\n  %s Cleared the index and session\n\n", cliui.SuccessMark)
	return nil
}

func (c *indexCommander) saveSession(videoID string, chunks int) error {
	state := &dotdir.SessionState{
		VideoID:    videoID,
		ChunkCount: chunks,
		IndexedAt:  time.Now().UTC(),
	}
	return dotdir.NewManager().SaveSession(state, c.configDir)
}
