// Package graphcmder provides the graph command for inspecting the question
// answering pipeline topology.
package graphcmder

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelstack/reelqa/cmd/reelqa/enginecfg"
	ragutils "github.com/reelstack/reelqa/pkg/rag/utils"
)

const graphLongDesc string = `Print the question answering pipeline graph.

Shows the nodes and edges of the retrieval pipeline as configured: how a
question flows through the retriever, prompt builder, generator, and
output parser.

Examples:
  reelqa graph
  reelqa graph --json`

const graphShortDesc string = "Print the pipeline graph"

type graphCommander struct {
	asJSON    bool
	configDir string
	debug     bool
}

func NewGraphCmd() *cobra.Command {
	cmder := &graphCommander{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: graphShortDesc,
		Long:  graphLongDesc,
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

	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Output the graph as JSON")

	return cmd
}

func (c *graphCommander) run(cmd *cobra.Command) error {
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

	graph := engine.Graph()

	if c.asJSON {
		data, err := json.MarshalIndent(graph, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding graph: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(graph.Render())
	return nil
}
