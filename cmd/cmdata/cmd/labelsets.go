package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslabs/cmdata/internal/app"
)

var labelsetsCmd = &cobra.Command{
	Use:   "labelsets [file]",
	Short: "List taxonomy files and their labelsets",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLabelsets,
}

func runLabelsets(cmd *cobra.Command, args []string) error {
	catalog, cleanup, err := openCatalog(loadConfig())
	if err != nil {
		return err
	}
	defer cleanup()

	files := catalog.Files()
	if len(args) == 1 {
		files = []string{args[0]}
	}
	for _, fileID := range files {
		tax, err := catalog.Taxonomy(fileID)
		if err != nil {
			return err
		}
		fmt.Println(fileID)
		for _, set := range tax.Labelsets() {
			kind, _ := tax.Kind(set)
			fmt.Printf("  %-24s %s\n", set, kind)
		}
	}
	fmt.Printf("unit registries: %s\n", strings.Join(app.RegistryNames(), ", "))
	return nil
}
