package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/weft"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pipeline.yaml>",
	Short: "Check a pipeline document for consistency",
	Long:  `Materializes the document and reports cycles, arity mismatches, and unsatisfiable capability requirements without running anything.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Pipeline is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	eng := weft.New()
	if err := registerBuiltins(eng.Registry()); err != nil {
		return err
	}

	graph, err := eng.Load(path)
	if err != nil {
		return err
	}
	return graph.Validate()
}
