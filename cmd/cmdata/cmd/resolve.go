package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslabs/cmdata/internal/domain/labels"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file> <labelset> <code>",
	Short: "Resolve a code to its display labels",
	Args:  cobra.ExactArgs(3),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	catalog, cleanup, err := openCatalog(loadConfig())
	if err != nil {
		return err
	}
	defer cleanup()

	fileID, set, code := args[0], args[1], args[2]
	tax, err := catalog.Taxonomy(fileID)
	if err != nil {
		return err
	}
	kind, err := tax.Kind(set)
	if err != nil {
		return err
	}

	// Hierarchy sets resolve to the node plus its ancestor chain; label
	// sets resolve to the display names.
	if kind == labels.KindHierarchy {
		h, _ := tax.Hierarchy(set)
		node, err := h.Node(code)
		if err != nil {
			return err
		}
		fmt.Printf("%s  level=%d  %s\n", node.Code, node.Level, node.LongName)
		if node.Memo() {
			fmt.Println("  memo entry, excluded from additive rollups")
		}
		chain, err := h.Ancestors(code)
		if err != nil {
			return err
		}
		for _, a := range chain {
			fmt.Printf("  ^ %s  level=%d  %s\n", a.Code, a.Level, a.LongName)
		}
		return nil
	}

	m, err := tax.LabelMap(set)
	if err != nil {
		return err
	}
	lbl, err := m.Resolve(code)
	if err != nil {
		return err
	}
	fmt.Println(lbl.Code)
	cols := make([]string, 0, len(lbl.Names))
	for col := range lbl.Names {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		fmt.Printf("  %-12s %s\n", strings.TrimPrefix(col, "name_"), lbl.Names[col])
	}
	if lbl.LongName != "" {
		fmt.Printf("  %-12s %s\n", "long", lbl.LongName)
	}
	return nil
}
