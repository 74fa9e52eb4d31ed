package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslabs/cmdata/internal/app"
	"github.com/eslabs/cmdata/taxonomy"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate taxonomy tables",
	Long:  "Loads and validates the embedded tables, or an external taxonomy directory. Exits non-zero on the first violation.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	catalog := app.NewCatalog()
	var err error
	if len(args) == 1 {
		err = catalog.AddDir(args[0], nil)
	} else {
		err = catalog.AddFS(taxonomy.FS, ".", nil)
	}
	if err != nil {
		return err
	}
	if err := catalog.Validate(); err != nil {
		return err
	}

	for _, fileID := range catalog.Files() {
		sets, _ := catalog.Labelsets(fileID)
		fmt.Printf("%s: %d labelsets ok\n", fileID, len(sets))
	}

	// Unit registries are part of the shipped data; validate them too.
	for _, name := range app.RegistryNames() {
		reg, err := app.LoadRegistry(name)
		if err != nil {
			return err
		}
		fmt.Printf("registry %s: %d units ok\n", name, reg.Units())
	}
	return nil
}
