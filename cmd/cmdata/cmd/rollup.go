package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rollupChain bool

var rollupCmd = &cobra.Command{
	Use:   "rollup <file> <table> <code>",
	Short: "Map a code to its aggregation bucket",
	Long:  "Applies an aggregation table to a code. With --chain, follows the table's parent chain through every coarser level.",
	Args:  cobra.ExactArgs(3),
	RunE:  runRollup,
}

func init() {
	rollupCmd.Flags().BoolVar(&rollupChain, "chain", false, "Follow the full aggregation chain")
}

func runRollup(cmd *cobra.Command, args []string) error {
	catalog, cleanup, err := openCatalog(loadConfig())
	if err != nil {
		return err
	}
	defer cleanup()

	fileID, table, code := args[0], args[1], args[2]
	if !rollupChain {
		parent, err := catalog.Rollup(fileID, table, code)
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s  (%s/%s)\n", code, parent, fileID, table)
		return nil
	}

	chain, err := catalog.RollupChain(fileID, table, code)
	if err != nil {
		return err
	}
	for _, step := range chain {
		fmt.Printf("%s -> %s  (%s/%s)\n", step.Code, step.Parent, step.File, step.Table)
	}
	return nil
}
