package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/weft"
	"github.com/aretw0/weft/internal/logging"
	"github.com/aretw0/weft/pkg/loader"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <pipeline.yaml>",
	Short: "Execute a pipeline document",
	Long:  `Loads a pipeline document, validates capability requirements, and runs it with the built-in node set.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPipeline(cmd, args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("parallel", "p", 1, "Maximum nodes of a ready batch to run concurrently")
	runCmd.Flags().StringToString("input", nil, "Input file per source node, as nodeID=path")
	runCmd.Flags().String("output-dir", "", "Directory prefixed to sink save paths")
}

func runPipeline(cmd *cobra.Command, path string) error {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	parallel, _ := cmd.Flags().GetInt("parallel")

	eng := weft.New(
		weft.WithLogger(logging.New(level)),
		weft.WithParallelism(parallel),
	)
	if err := registerBuiltins(eng.Registry()); err != nil {
		return err
	}

	graph, err := eng.Load(path)
	if err != nil {
		return err
	}

	if inputs, _ := cmd.Flags().GetStringToString("input"); len(inputs) > 0 {
		loader.AssignInputs(graph, inputs)
	}
	if outputDir, _ := cmd.Flags().GetString("output-dir"); outputDir != "" {
		loader.AssignOutputs(graph, outputDir)
	}

	return eng.Run(cmd.Context(), graph)
}
