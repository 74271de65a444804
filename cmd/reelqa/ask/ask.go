// Package askcmder provides the ask command for one-shot question answering
// against the indexed transcript.
package askcmder

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reelstack/reelqa/cmd/reelqa/enginecfg"
	"github.com/reelstack/reelqa/pkg/cliui"
	"github.com/reelstack/reelqa/pkg/config"
	"github.com/reelstack/reelqa/pkg/dotdir"
	ragutils "github.com/reelstack/reelqa/pkg/rag/utils"
)

const askLongDesc string = `Ask a question about the indexed transcript.

Embeds the question, retrieves the most relevant transcript chunks from the
vector store, and generates an answer grounded in those chunks. Run
"reelqa index <video-id>" first.

Examples:
  reelqa ask "What is the main argument of the talk?"
  reelqa ask "When is the demo shown?" --top-k 8
  reelqa ask "Summarize the conclusion" --plain`

const askShortDesc string = "Ask a question about the indexed transcript"

type askCommander struct {
	plain     bool
	configDir string
	debug     bool
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
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
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print the answer without markdown rendering")
	cmd.Flags().IntP(config.FlagTopK, "k", 0, "Number of chunks to retrieve")

	return cmd
}

func (c *askCommander) run(cmd *cobra.Command, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

	ctx := cmd.Context()

	cfg, err := enginecfg.Load(c.configDir)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed(config.FlagTopK) {
		cfg.Retrieval.K, _ = cmd.Flags().GetInt(config.FlagTopK)
	}

	engine, err := ragutils.NewEngine(ctx, cfg, enginecfg.NewLogger(c.debug))
	if err != nil {
		return err
	}
	defer engine.Close()

	var answer string
	if err := cliui.Step(os.Stdout, "Thinking", func() error {
		var askErr error
		answer, askErr = engine.Invoke(ctx, question)
		return askErr
	}); err != nil {
		return err
	}

	if c.plain {
		fmt.Printf("\n%s\n", answer)
	} else {
		rendered, err := cliui.RenderMarkdown(answer)
		if err != nil {
			rendered = "\n" + answer + "\n"
		}
		fmt.Print(rendered)
	}

	c.recordExchange(question, answer)

	return nil
}

// recordExchange appends the exchange to the session history. Losing the
// history entry is not worth failing the command after the answer printed.
func (c *askCommander) recordExchange(question, answer string) {
	ddm := dotdir.NewManager()

	state, err := ddm.LoadSessionState(c.configDir)
	if err != nil || state == nil {
		return
	}

	state.Exchanges = append(state.Exchanges, dotdir.SessionExchange{
		Question: question,
		Answer:   answer,
	})

	_ = ddm.SaveSession(state, c.configDir)
}
