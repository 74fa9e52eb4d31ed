// Package labels parses and validates taxonomy label files: YAML documents
// mapping short statistical codes to display names, hierarchy tables (parent
// links with integer levels), and aggregation tables that roll fine-grained
// codes up into coarser reporting buckets.
package labels

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Orientation of a document's data block.
const (
	OrientIndex   = "index"   // row-major: code -> attribute -> value
	OrientColumns = "columns" // column-major: attribute -> code -> value
)

// Kind classifies a labelset document by its declared columns.
type Kind int

const (
	KindLabels      Kind = iota // display names and descriptions
	KindHierarchy               // parent + level columns
	KindAggregation             // parent column only
)

// String returns the kind name used in CLI output and error messages.
func (k Kind) String() string {
	switch k {
	case KindHierarchy:
		return "hierarchy"
	case KindAggregation:
		return "aggregation"
	default:
		return "labels"
	}
}

// Document is one labelset parsed out of a taxonomy file: the declarative
// header plus the code-keyed rows in file order.
type Document struct {
	File    string // file id the document came from
	Name    string // labelset name (top-level key in the file)
	Orient  string
	Columns []string
	Ordered bool

	// Aggregation chaining: the labelset (same file) or file id holding the
	// next coarser aggregation level.
	Parent     string
	ParentFile string

	// Level restriction: the hierarchy labelset this table's codes must be
	// found in, and the level they must be at. Zero level means unrestricted.
	Hierarchy      string
	HierarchyLevel int

	Codes []string                     // codes in file order
	Rows  map[string]map[string]string // code -> column -> value
}

// Kind classifies the document from its declared columns.
func (d *Document) Kind() Kind {
	hasParent, hasLevel := false, false
	for _, c := range d.Columns {
		switch c {
		case "parent":
			hasParent = true
		case "level":
			hasLevel = true
		}
	}
	switch {
	case hasParent && hasLevel:
		return KindHierarchy
	case hasParent:
		return KindAggregation
	default:
		return KindLabels
	}
}

// yamlDocument is the YAML-serialized form of a Document header. The data
// block stays a yaml.Node so key order can be preserved for ordered sets.
type yamlDocument struct {
	Orient         string    `yaml:"orient"`
	Columns        []string  `yaml:"columns"`
	Ordered        bool      `yaml:"ordered"`
	Parent         string    `yaml:"parent"`
	ParentFile     string    `yaml:"parent_file"`
	Hierarchy      string    `yaml:"hierarchy"`
	HierarchyLevel int       `yaml:"hierarchy_level"`
	Data           yaml.Node `yaml:"data"`
}

// ParseFile parses one taxonomy YAML file into its labelset documents,
// in file order. fileID names the file in errors and lookups.
func ParseFile(fileID string, data []byte) ([]*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileID, err)
	}
	if len(root.Content) == 0 {
		return nil, &ValidationError{File: fileID, Msg: "empty file"}
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, &ValidationError{File: fileID, Msg: "top level must be a mapping of labelsets"}
	}

	var docs []*Document
	seen := make(map[string]bool)
	for i := 0; i < len(top.Content); i += 2 {
		name := top.Content[i].Value
		if seen[name] {
			return nil, &ValidationError{File: fileID, Msg: fmt.Sprintf("duplicate labelset %q", name)}
		}
		seen[name] = true

		var yd yamlDocument
		if err := top.Content[i+1].Decode(&yd); err != nil {
			return nil, fmt.Errorf("parse %s/%s: %w", fileID, name, err)
		}
		doc, err := convertDocument(fileID, name, &yd)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// convertDocument converts a yamlDocument to a Document, checking the header
// and the data layout against the declared orientation and columns.
func convertDocument(fileID, name string, yd *yamlDocument) (*Document, error) {
	fail := func(msg string, args ...any) error {
		return &ValidationError{File: fileID, Labelset: name, Msg: fmt.Sprintf(msg, args...)}
	}

	if yd.Orient != OrientIndex && yd.Orient != OrientColumns {
		return nil, fail("orient must be %q or %q, got %q", OrientIndex, OrientColumns, yd.Orient)
	}
	if len(yd.Columns) == 0 {
		return nil, fail("columns must be declared")
	}
	declared := make(map[string]bool, len(yd.Columns))
	for _, c := range yd.Columns {
		if declared[c] {
			return nil, fail("duplicate column %q", c)
		}
		declared[c] = true
	}
	if yd.Parent != "" && yd.ParentFile != "" {
		return nil, fail("parent and parent_file are mutually exclusive")
	}
	if yd.HierarchyLevel != 0 && yd.Hierarchy == "" {
		return nil, fail("hierarchy_level requires a hierarchy labelset")
	}
	if yd.Data.Kind != yaml.MappingNode {
		return nil, fail("data must be a mapping")
	}

	doc := &Document{
		File:           fileID,
		Name:           name,
		Orient:         yd.Orient,
		Columns:        yd.Columns,
		Ordered:        yd.Ordered,
		Parent:         yd.Parent,
		ParentFile:     yd.ParentFile,
		Hierarchy:      yd.Hierarchy,
		HierarchyLevel: yd.HierarchyLevel,
		Rows:           make(map[string]map[string]string),
	}

	var err error
	switch yd.Orient {
	case OrientIndex:
		err = decodeIndexData(doc, &yd.Data, declared)
	case OrientColumns:
		err = decodeColumnsData(doc, &yd.Data, declared)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// decodeIndexData reads a row-major data block: code -> column -> value.
func decodeIndexData(doc *Document, data *yaml.Node, declared map[string]bool) error {
	fail := func(msg string, args ...any) error {
		return &ValidationError{File: doc.File, Labelset: doc.Name, Msg: fmt.Sprintf(msg, args...)}
	}
	for i := 0; i < len(data.Content); i += 2 {
		code := data.Content[i].Value
		if _, dup := doc.Rows[code]; dup {
			return fail("duplicate code %q", code)
		}
		rowNode := data.Content[i+1]
		if rowNode.Kind != yaml.MappingNode {
			return fail("code %q: row must be a mapping", code)
		}
		row := make(map[string]string, len(doc.Columns))
		for j := 0; j < len(rowNode.Content); j += 2 {
			col := rowNode.Content[j].Value
			if !declared[col] {
				return fail("code %q: undeclared column %q", code, col)
			}
			row[col] = scalarValue(rowNode.Content[j+1])
		}
		doc.Codes = append(doc.Codes, code)
		doc.Rows[code] = row
	}
	return nil
}

// decodeColumnsData reads a column-major data block: column -> code -> value.
// Code order is taken from the first column; all columns must cover the same
// code set.
func decodeColumnsData(doc *Document, data *yaml.Node, declared map[string]bool) error {
	fail := func(msg string, args ...any) error {
		return &ValidationError{File: doc.File, Labelset: doc.Name, Msg: fmt.Sprintf(msg, args...)}
	}
	for i := 0; i < len(data.Content); i += 2 {
		col := data.Content[i].Value
		if !declared[col] {
			return fail("undeclared column %q", col)
		}
		colNode := data.Content[i+1]
		if colNode.Kind != yaml.MappingNode {
			return fail("column %q must be a mapping of codes", col)
		}
		for j := 0; j < len(colNode.Content); j += 2 {
			code := colNode.Content[j].Value
			row, ok := doc.Rows[code]
			if !ok {
				if i > 0 {
					return fail("column %q: code %q missing from column %q", col, code, doc.Columns[0])
				}
				row = make(map[string]string, len(doc.Columns))
				doc.Codes = append(doc.Codes, code)
				doc.Rows[code] = row
			}
			if _, dup := row[col]; dup {
				return fail("column %q: duplicate code %q", col, code)
			}
			row[col] = scalarValue(colNode.Content[j+1])
		}
	}
	// Columns past the first must not be missing any codes either.
	for _, code := range doc.Codes {
		for col := range declared {
			if _, ok := doc.Rows[code][col]; !ok && colPresent(doc, col) {
				return fail("column %q: missing code %q", col, code)
			}
		}
	}
	return nil
}

// colPresent reports whether any row carries a value for col. Columns that
// are declared but entirely absent from the data are tolerated at parse time;
// the typed builders decide whether they are required.
func colPresent(doc *Document, col string) bool {
	for _, row := range doc.Rows {
		if _, ok := row[col]; ok {
			return true
		}
	}
	return false
}

// scalarValue returns a scalar node's text. Null nodes become empty strings,
// which is how roots express "no parent".
func scalarValue(n *yaml.Node) string {
	if n.Tag == "!!null" {
		return ""
	}
	return n.Value
}
