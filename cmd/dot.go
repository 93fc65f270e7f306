package cmd

import (
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/lioia/sparse-pagerank/pkg/graph"
	"github.com/lioia/sparse-pagerank/pkg/node"
	"github.com/lioia/sparse-pagerank/pkg/pagerank"
	"github.com/spf13/cobra"
)

var dotCmd = &cobra.Command{
	Use:   "dot [graph]",
	Short: "Render a graph (optionally labelled with its ranks) with graphviz",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDot,
}

func init() {
	dotCmd.Flags().String("format", string(graph.FormatPages), "graph format: pages or edgelist")
	dotCmd.Flags().Float64("dampener", node.DefaultDampener, "damping factor (edgelist format only)")
	dotCmd.Flags().Bool("ranks", true, "label pages with their score")
	dotCmd.Flags().Bool("svg", false, "render svg instead of dot")
	dotCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(dotCmd)
}

func runDot(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	value, _ := flags.GetString("format")
	format, err := graph.ParseFormat(value)
	if err != nil {
		return err
	}
	dampener, _ := flags.GetFloat64("dampener")
	resource := ""
	if len(args) == 1 {
		resource = args[0]
	}
	in, err := loadInput(resource, format, dampener, cmd.InOrStdin())
	if err != nil {
		return err
	}
	var scores []float64
	if withRanks, _ := flags.GetBool("ranks"); withRanks {
		_, result, err := pagerank.Compute(in, pagerank.WithMaxIterations(env.MaxIterations))
		if err != nil {
			return err
		}
		scores = result.Scores
	}
	render := graphviz.XDOT
	if svg, _ := flags.GetBool("svg"); svg {
		render = graphviz.SVG
	}
	out := cmd.OutOrStdout()
	if path, _ := flags.GetString("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	return graph.Render(out, in.Pages, scores, render)
}
