package labels

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Taxonomy is one fully parsed and validated taxonomy file: its labelsets,
// with typed views built per document kind.
type Taxonomy struct {
	fileID string
	sets   []string
	docs   map[string]*Document

	labelMaps    map[string]*LabelMap
	hierarchies  map[string]*Hierarchy
	aggregations map[string]*Aggregation
}

// NewTaxonomy builds the typed tables for a file's documents and runs all
// intra-file validation. Cross-file references (parent_file) are validated
// by the catalog once every file is loaded.
func NewTaxonomy(fileID string, docs []*Document) (*Taxonomy, error) {
	t := &Taxonomy{
		fileID:       fileID,
		docs:         make(map[string]*Document, len(docs)),
		labelMaps:    make(map[string]*LabelMap),
		hierarchies:  make(map[string]*Hierarchy),
		aggregations: make(map[string]*Aggregation),
	}
	for _, doc := range docs {
		t.sets = append(t.sets, doc.Name)
		t.docs[doc.Name] = doc

		var err error
		switch doc.Kind() {
		case KindHierarchy:
			t.hierarchies[doc.Name], err = NewHierarchy(doc)
		case KindAggregation:
			t.aggregations[doc.Name], err = NewAggregation(doc)
		default:
			t.labelMaps[doc.Name], err = NewLabelMap(doc)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, agg := range t.aggregations {
		if err := t.validateAggregation(agg); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// validateAggregation checks a table's same-file references: the hierarchy
// it is restricted by, and the parent table its aggregate codes must be
// defined in.
func (t *Taxonomy) validateAggregation(agg *Aggregation) error {
	if set, _ := agg.Restriction(); set != "" {
		if _, ok := t.hierarchies[set]; !ok {
			return &ValidationError{
				File: t.fileID, Labelset: agg.Labelset(),
				Msg: fmt.Sprintf("hierarchy %q is not a hierarchy labelset in this file", set),
			}
		}
	}
	if agg.ParentSet() != "" {
		parent, ok := t.aggregations[agg.ParentSet()]
		if !ok {
			return &ValidationError{
				File: t.fileID, Labelset: agg.Labelset(),
				Msg: fmt.Sprintf("parent %q is not an aggregation labelset in this file", agg.ParentSet()),
			}
		}
		return CheckChain(agg, parent)
	}
	return nil
}

// CheckChain verifies that every aggregate code a table maps to is defined
// as a child in the next coarser table.
func CheckChain(agg, parent *Aggregation) error {
	for _, code := range agg.Codes() {
		mapped, _ := agg.Rollup(code)
		if !parent.Contains(mapped) {
			return &DanglingParentError{
				File: agg.File(), Labelset: agg.Labelset(),
				Code: code, Parent: mapped,
			}
		}
	}
	return nil
}

// File returns the file id.
func (t *Taxonomy) File() string { return t.fileID }

// Labelsets returns labelset names in file order.
func (t *Taxonomy) Labelsets() []string { return t.sets }

// Documents returns the parsed documents in file order. Used for cache
// snapshots; the documents are already validated.
func (t *Taxonomy) Documents() []*Document {
	docs := make([]*Document, 0, len(t.sets))
	for _, name := range t.sets {
		docs = append(docs, t.docs[name])
	}
	return docs
}

// Kind returns the kind of a labelset, or an error if it does not exist.
func (t *Taxonomy) Kind(set string) (Kind, error) {
	doc, ok := t.docs[set]
	if !ok {
		return 0, &ValidationError{File: t.fileID, Msg: fmt.Sprintf("no labelset %q", set)}
	}
	return doc.Kind(), nil
}

// LabelMap returns the labelset as a label map.
func (t *Taxonomy) LabelMap(set string) (*LabelMap, error) {
	m, ok := t.labelMaps[set]
	if !ok {
		return nil, t.wrongKind(set, KindLabels)
	}
	return m, nil
}

// Hierarchy returns the labelset as a hierarchy table.
func (t *Taxonomy) Hierarchy(set string) (*Hierarchy, error) {
	h, ok := t.hierarchies[set]
	if !ok {
		return nil, t.wrongKind(set, KindHierarchy)
	}
	return h, nil
}

// Aggregation returns the labelset as an aggregation table.
func (t *Taxonomy) Aggregation(set string) (*Aggregation, error) {
	a, ok := t.aggregations[set]
	if !ok {
		return nil, t.wrongKind(set, KindAggregation)
	}
	return a, nil
}

func (t *Taxonomy) wrongKind(set string, want Kind) error {
	doc, ok := t.docs[set]
	if !ok {
		return &ValidationError{File: t.fileID, Msg: fmt.Sprintf("no labelset %q", set)}
	}
	return &ValidationError{
		File: t.fileID, Labelset: set,
		Msg: fmt.Sprintf("labelset is %s, not %s", doc.Kind(), want),
	}
}

// fileSuffix is stripped from file names to form file ids:
// iea/CO2_bigco2_labels.yaml -> iea/CO2_bigco2.
const fileSuffix = "_labels.yaml"

// LoadFS loads every taxonomy file under dir in an fs.FS, in sorted order
// for deterministic results. Returns taxonomies keyed and ordered by file id.
func LoadFS(fsys fs.FS, dir string) (map[string]*Taxonomy, []string, error) {
	var paths []string
	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".yaml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("read taxonomy dir %q: %w", dir, err)
	}
	sort.Strings(paths)

	taxonomies := make(map[string]*Taxonomy, len(paths))
	var order []string
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		fileID := FileID(strings.TrimPrefix(path, dir+"/"))
		tax, err := Load(fileID, data)
		if err != nil {
			return nil, nil, err
		}
		taxonomies[fileID] = tax
		order = append(order, fileID)
	}
	return taxonomies, order, nil
}

// Load parses and validates a single taxonomy file.
func Load(fileID string, data []byte) (*Taxonomy, error) {
	docs, err := ParseFile(fileID, data)
	if err != nil {
		return nil, err
	}
	return NewTaxonomy(fileID, docs)
}

// FileID derives a file id from a file name relative to the taxonomy root.
func FileID(relPath string) string {
	if strings.HasSuffix(relPath, fileSuffix) {
		return strings.TrimSuffix(relPath, fileSuffix)
	}
	return strings.TrimSuffix(relPath, ".yaml")
}
