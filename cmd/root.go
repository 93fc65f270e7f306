package cmd

import (
	"fmt"
	"os"

	"github.com/lioia/sparse-pagerank/pkg/utils"
	"github.com/spf13/cobra"
)

// Environment configuration, read once before any command runs
var env utils.EnvVars

var rootCmd = &cobra.Command{
	Use:   "pagerank",
	Short: "Sparse PageRank by damped power iteration",
	Long: "pagerank computes the PageRank of every page of a directed graph, " +
		"either once from the command line or as a gRPC/HTTP service and queue worker.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log computation and server events")
}

func initConfig() {
	env = utils.ReadEnvVars()
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		env.NodeLog = true
		env.ServerLog = true
	}
	utils.InitLog(env.NodeLog, env.ServerLog)
}
