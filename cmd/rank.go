package cmd

import (
	"io"
	"os"

	"github.com/lioia/sparse-pagerank/pkg/graph"
	"github.com/lioia/sparse-pagerank/pkg/node"
	"github.com/lioia/sparse-pagerank/pkg/pagerank"
	"github.com/lioia/sparse-pagerank/pkg/utils"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [graph]",
	Short: "Rank a graph and print one \"name score\" line per page",
	Long: "Rank reads a graph from a local file, an http(s) url or stdin " +
		"(when no graph is given) and prints the score of every page with 4 decimals.",
	Args: cobra.MaximumNArgs(1),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().String("config", "", "json configuration file (Graph, Format, Dampener, Output, MaxIterations)")
	rankCmd.Flags().String("format", string(graph.FormatPages), "graph format: pages or edgelist")
	rankCmd.Flags().Float64("dampener", node.DefaultDampener, "damping factor (edgelist format only)")
	rankCmd.Flags().StringP("output", "o", "", "report file (default stdout)")
	rankCmd.Flags().Int("max-iterations", 0, "iteration cap (0: until convergence)")
	rootCmd.AddCommand(rankCmd)
}

// Settings of a single run: config file first, then flags and arguments
type rankSettings struct {
	resource      string
	format        graph.Format
	dampener      float64
	output        string
	maxIterations int
}

func readRankSettings(cmd *cobra.Command, args []string) (rankSettings, error) {
	s := rankSettings{maxIterations: env.MaxIterations}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		config, err := utils.LoadConfiguration(path)
		if err != nil {
			return s, err
		}
		s.resource = config.Graph
		s.output = config.Output
		if config.MaxIterations > 0 {
			s.maxIterations = config.MaxIterations
		}
		if s.format, err = graph.ParseFormat(config.Format); err != nil {
			return s, err
		}
		s.dampener = config.Dampener
	}
	flags := cmd.Flags()
	if len(args) == 1 {
		s.resource = args[0]
	}
	if flags.Changed("format") || s.format == "" {
		value, _ := flags.GetString("format")
		format, err := graph.ParseFormat(value)
		if err != nil {
			return s, err
		}
		s.format = format
	}
	if flags.Changed("dampener") || s.dampener == 0 {
		s.dampener, _ = flags.GetFloat64("dampener")
	}
	if flags.Changed("output") {
		s.output, _ = flags.GetString("output")
	}
	if flags.Changed("max-iterations") {
		s.maxIterations, _ = flags.GetInt("max-iterations")
	}
	return s, nil
}

func loadInput(resource string, format graph.Format, dampener float64, stdin io.Reader) (*graph.Input, error) {
	if resource == "" || resource == "-" {
		contents, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return graph.LoadGraphBytes(contents, format, dampener)
	}
	return graph.LoadGraphResource(resource, format, dampener)
}

func runRank(cmd *cobra.Command, args []string) error {
	s, err := readRankSettings(cmd, args)
	if err != nil {
		return err
	}
	in, err := loadInput(s.resource, s.format, s.dampener, cmd.InOrStdin())
	if err != nil {
		return err
	}
	utils.NodeLog("cli", "Loaded %d pages, %d edges (%d cores available)", in.NumPages(), in.Edges, in.Cores)
	ranks, result, err := pagerank.Compute(in,
		pagerank.WithMaxIterations(s.maxIterations),
		pagerank.WithObserver(func(iteration int, scores []float64) {
			if utils.NodeLogEnabled() {
				utils.IterationLog("cli", iteration, pagerank.Mass(scores))
			}
		}),
	)
	// An inconsistent edge count cannot be recovered from
	utils.FailOnError("Could not build compact graph", err)
	if !result.Converged {
		utils.WarnLog("cli", "Stopped after %d iterations without converging", result.Iterations)
	}

	out := cmd.OutOrStdout()
	if s.output != "" {
		file, err := os.Create(s.output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	return pagerank.WriteReport(out, ranks)
}
