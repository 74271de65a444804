// Package reelqacmder provides the root reelqa command and wires together
// all subcommands.
package reelqacmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/reelstack/reelqa/cmd/reelqa/ask"
	chatcmder "github.com/reelstack/reelqa/cmd/reelqa/chat"
	configcmder "github.com/reelstack/reelqa/cmd/reelqa/config"
	graphcmder "github.com/reelstack/reelqa/cmd/reelqa/graph"
	indexcmder "github.com/reelstack/reelqa/cmd/reelqa/index"
	initcmder "github.com/reelstack/reelqa/cmd/reelqa/init"
	searchcmder "github.com/reelstack/reelqa/cmd/reelqa/search"
	servecmder "github.com/reelstack/reelqa/cmd/reelqa/serve"
	versioncmder "github.com/reelstack/reelqa/cmd/version"
)

const reelqaLongDesc string = `ReelQA answers questions about video transcripts.

Index a transcript, then ask questions against it:
  reelqa index <video-id>        Fetch, chunk, embed, and index a transcript
  reelqa ask "<question>"        Answer a question from the indexed transcript
  reelqa chat                    Interactive question answering session
  reelqa serve                   Run the HTTP API and MCP server`

const reelqaShortDesc string = "ReelQA - Transcript Question Answering"

func NewReelQACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reelqa",
		Short: reelqaShortDesc,
		Long:  reelqaLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .reelqa/ config directory")

	// Add subcommands
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(graphcmder.NewGraphCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
