package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractNoTables bool

var extractCmd = &cobra.Command{
	Use:   "extract <input_dir> <output_dir>",
	Short: "Write a JSON outline for every PDF in a folder",
	Long: `Extract the title, language and heading outline of every PDF in
input_dir and write <name>.json for each into output_dir, which is created
if missing. Files that cannot be decoded are logged and skipped.

Examples:
  outline extract ./input ./output
  outline extract --no-tables ./input ./output`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if extractNoTables {
			cfg.Tables.Enabled = false
		}

		p, closeFn, err := newPipeline(cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()

		sum, err := p.ExtractOutlines(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d outline(s), %d failed\n", sum.Processed, sum.Failed)
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractNoTables, "no-tables", false, "do not exclude lines inside detected tables")
}
