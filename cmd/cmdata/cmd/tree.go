package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslabs/cmdata/internal/domain/labels"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree <file> <labelset>",
	Short: "Render a hierarchy labelset as a tree",
	Long:  "Prints the parent-linked code tree with levels and long names. Memo entries are listed under their natural parent, marked (memo).",
	Args:  cobra.ExactArgs(2),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "Max depth (0 = unlimited)")
}

func runTree(cmd *cobra.Command, args []string) error {
	catalog, cleanup, err := openCatalog(loadConfig())
	if err != nil {
		return err
	}
	defer cleanup()

	h, err := catalog.Hierarchy(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("%s/%s\n", args[0], args[1])
	var sb strings.Builder
	for _, root := range h.Roots() {
		node, _ := h.Node(root)
		writeNode(&sb, h, node, "", "", 1)
	}
	fmt.Print(sb.String())
	return nil
}

// writeNode renders node with self prefixed to its own line and descends with
// childPrefix, which carries the vertical guides for deeper levels.
func writeNode(sb *strings.Builder, h *labels.Hierarchy, node labels.HierarchyNode, self, childPrefix string, depth int) {
	memo := ""
	if node.Memo() {
		memo = " (memo)"
	}
	fmt.Fprintf(sb, "%s%s  [%d]%s  %s\n", self, node.Code, node.Level, memo, node.LongName)

	if treeDepth > 0 && depth >= treeDepth {
		return
	}
	kids := h.Children(node.Code)
	for i, kid := range kids {
		child, _ := h.Node(kid)
		connector, guide := "├── ", "│   "
		if i == len(kids)-1 {
			connector, guide = "└── ", "    "
		}
		writeNode(sb, h, child, childPrefix+connector, childPrefix+guide, depth+1)
	}
}
