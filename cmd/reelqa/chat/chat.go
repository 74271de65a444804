// Package chatcmder provides the chat command for an interactive question
// answering session against the indexed transcript.
package chatcmder

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/reelstack/reelqa/cmd/reelqa/enginecfg"
	"github.com/reelstack/reelqa/pkg/cliui"
	"github.com/reelstack/reelqa/pkg/config"
	"github.com/reelstack/reelqa/pkg/dotdir"
	ragutils "github.com/reelstack/reelqa/pkg/rag/utils"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("reelqa> ")
)

const chatLongDesc string = `Start an interactive question answering session.

Each question is answered from the currently indexed transcript. The
session history is persisted in the .reelqa/ directory, so re-running
"reelqa chat" shows which video is indexed and keeps appending to the
same history.

Examples:
  reelqa chat
  reelqa chat --top-k 8`

const chatShortDesc string = "Interactive transcript question answering"

type chatCommander struct {
	configDir string
	debug     bool
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
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
			return cmder.run(cmd)
		},
	}

	cmd.Flags().IntP(config.FlagTopK, "k", 0, "Number of chunks to retrieve per question")

	return cmd
}

func (c *chatCommander) run(cmd *cobra.Command) error {
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

	ddm := dotdir.NewManager()
	state, err := ddm.LoadSessionState(c.configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}

	fmt.Println()
	if state != nil {
		fmt.Printf("  %s Indexed video %s %s\n",
			cliui.SuccessMark,
			cliui.ValueStyle.Render(state.VideoID),
			cliui.DimStyle.Render(fmt.Sprintf("(%d chunks, %d previous exchanges)", state.ChunkCount, len(state.Exchanges))),
		)
	} else {
		fmt.Printf("  %s No indexed transcript. Run \"reelqa index <video-id>\" first.\n", cliui.DimStyle.Render("●"))
	}
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your question and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		fmt.Print(assistantPrompt)
		answer, err := engine.InvokeStream(ctx, input, func(delta string) {
			fmt.Print(delta)
		})
		if err != nil {
			fmt.Println()
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}
		fmt.Println()
		fmt.Println()

		if state != nil {
			state.Exchanges = append(state.Exchanges, dotdir.SessionExchange{
				Question: input,
				Answer:   answer,
			})
			if err := ddm.SaveSession(state, c.configDir); err != nil {
				fmt.Fprintf(os.Stderr, "  %s saving session: %v\n", cliui.FailMark, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}
