package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eslabs/cmdata/internal/app"
)

var (
	convertContext  string
	convertRegistry string
)

var convertCmd = &cobra.Command{
	Use:   "convert <value> <from> <to>",
	Short: "Convert a quantity between units",
	Long:  "Converts using the fixed unit factors; --context allows a named context (e.g. natgas) to bridge volume and mass.",
	Args:  cobra.ExactArgs(3),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertContext, "context", "c", "", "Conversion context (e.g. natgas)")
	convertCmd.Flags().StringVarP(&convertRegistry, "registry", "r", "", "Unit registry (default from CMDATA_REGISTRY)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	name := convertRegistry
	if name == "" {
		name = cfg.Registry
	}
	reg, err := app.LoadRegistry(name)
	if err != nil {
		return err
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("value %q is not a number", args[0])
	}
	from, to := args[1], args[2]

	var out float64
	if convertContext != "" {
		out, err = reg.ConvertIn(convertContext, value, from, to)
	} else {
		out, err = reg.Convert(value, from, to)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%g %s = %g %s\n", value, from, out, to)
	return nil
}
