package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/weft/pkg/registry"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Emit the node catalog as JSON",
	Long:  `Renders the built-in node definitions (arity, effects, requirements, parameter schema) as the JSON manifest consumed by the pipeline designer.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runManifest(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)

	manifestCmd.Flags().StringP("output", "o", "node_data.json", "Path for the manifest JSON")
	manifestCmd.Flags().StringP("display", "d", "Built-in nodes", "Name to display for the catalog")
	manifestCmd.Flags().Bool("summary", false, "Print the module tree instead of writing JSON")
}

func runManifest(cmd *cobra.Command) error {
	reg := registry.New()
	if err := registerBuiltins(reg); err != nil {
		return err
	}

	display, _ := cmd.Flags().GetString("display")
	manifest := reg.Manifest(display)

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		fmt.Print(manifest.Summary())
		return nil
	}

	data, err := manifest.JSON()
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return os.WriteFile(output, data, 0o644)
}
