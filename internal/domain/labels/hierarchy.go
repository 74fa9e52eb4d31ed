package labels

import (
	"fmt"
	"strconv"
	"strings"
)

// MemoLevel is the sentinel level marking a code as informational ("memo").
// Memo codes sit outside the additive tree: they must not be included in
// rollup sums or totals would double-count.
const MemoLevel = 99

// memoParentPrefix marks a memo node's natural parent: a memo code that is
// entirely contained within one additive code X carries parent "MEMO_X".
const memoParentPrefix = "MEMO_"

// HierarchyNode is one code's position in a hierarchy table.
type HierarchyNode struct {
	Code     string
	Parent   string // empty for roots; may carry the MEMO_ prefix
	Level    int
	LongName string
}

// Memo reports whether the node is informational and excluded from
// additive rollups.
func (n HierarchyNode) Memo() bool { return n.Level == MemoLevel }

// NaturalParent returns the parent code with any MEMO_ prefix stripped.
func (n HierarchyNode) NaturalParent() string {
	return strings.TrimPrefix(n.Parent, memoParentPrefix)
}

// Hierarchy is a validated parent-linked tree of codes for one labelset.
type Hierarchy struct {
	file  string
	set   string
	codes []string
	nodes map[string]HierarchyNode
}

// NewHierarchy builds and validates a hierarchy from a parsed document.
// Validation enforces the load-time contract: every non-root parent must be
// a defined code, the parent graph must be acyclic, and levels must be
// non-decreasing from root to leaf. Memo nodes are excepted from the level
// rule, they sit outside the additive tree.
func NewHierarchy(doc *Document) (*Hierarchy, error) {
	h := &Hierarchy{
		file:  doc.File,
		set:   doc.Name,
		codes: doc.Codes,
		nodes: make(map[string]HierarchyNode, len(doc.Codes)),
	}
	for _, code := range doc.Codes {
		row := doc.Rows[code]
		level, err := strconv.Atoi(row["level"])
		if err != nil {
			return nil, &ValidationError{
				File: doc.File, Labelset: doc.Name,
				Msg: fmt.Sprintf("code %q: level %q is not an integer", code, row["level"]),
			}
		}
		h.nodes[code] = HierarchyNode{
			Code:     code,
			Parent:   row["parent"],
			Level:    level,
			LongName: row["long_name"],
		}
	}

	for _, code := range doc.Codes {
		node := h.nodes[code]
		parent := node.NaturalParent()
		if parent == "" {
			continue
		}
		pnode, ok := h.nodes[parent]
		if !ok {
			return nil, &DanglingParentError{File: h.file, Labelset: h.set, Code: code, Parent: node.Parent}
		}
		if !node.Memo() && node.Level < pnode.Level {
			return nil, &ValidationError{
				File: h.file, Labelset: h.set,
				Msg: fmt.Sprintf("code %q at level %d has parent %q at deeper level %d",
					code, node.Level, parent, pnode.Level),
			}
		}
	}

	// Every chain must reach a root within len(nodes) steps.
	for _, code := range doc.Codes {
		if _, err := h.Ancestors(code); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// File returns the file id the hierarchy was loaded from.
func (h *Hierarchy) File() string { return h.file }

// Labelset returns the labelset name.
func (h *Hierarchy) Labelset() string { return h.set }

// Codes returns all codes in file order. For ordered hierarchy sets the
// order is the intended listing order.
func (h *Hierarchy) Codes() []string { return h.codes }

// Node returns the hierarchy record for a code.
func (h *Hierarchy) Node(code string) (HierarchyNode, error) {
	n, ok := h.nodes[code]
	if !ok {
		return HierarchyNode{}, &UnknownCodeError{File: h.file, Labelset: h.set, Code: code}
	}
	return n, nil
}

// Level returns the hierarchy level of a code.
func (h *Hierarchy) Level(code string) (int, error) {
	n, err := h.Node(code)
	if err != nil {
		return 0, err
	}
	return n.Level, nil
}

// Ancestors returns the ancestor chain of a code, nearest parent first,
// ending at a root. Memo parents resolve through their natural parent.
// Fails with CycleError if the chain does not terminate within the number
// of defined codes, or DanglingParentError on an undefined parent.
func (h *Hierarchy) Ancestors(code string) ([]HierarchyNode, error) {
	node, ok := h.nodes[code]
	if !ok {
		return nil, &UnknownCodeError{File: h.file, Labelset: h.set, Code: code}
	}

	var chain []HierarchyNode
	for steps := 0; node.Parent != ""; steps++ {
		if steps >= len(h.nodes) {
			return nil, &CycleError{File: h.file, Labelset: h.set, Code: code}
		}
		parent := node.NaturalParent()
		pnode, ok := h.nodes[parent]
		if !ok {
			return nil, &DanglingParentError{File: h.file, Labelset: h.set, Code: node.Code, Parent: node.Parent}
		}
		chain = append(chain, pnode)
		node = pnode
	}
	return chain, nil
}

// Roots returns the codes with no parent, in file order.
func (h *Hierarchy) Roots() []string {
	var roots []string
	for _, code := range h.codes {
		if h.nodes[code].Parent == "" {
			roots = append(roots, code)
		}
	}
	return roots
}

// Children returns the codes whose natural parent is the given code,
// in file order.
func (h *Hierarchy) Children(code string) []string {
	var kids []string
	for _, c := range h.codes {
		if h.nodes[c].NaturalParent() == code && c != code {
			kids = append(kids, c)
		}
	}
	return kids
}
