// Package app wires the taxonomy catalog: embedded label tables, optional
// external overlay directories, the parse cache, and unit registries.
package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/eslabs/cmdata/internal/domain/labels"
	"github.com/eslabs/cmdata/internal/ports"
)

// Catalog holds every loaded taxonomy file and answers label, hierarchy,
// and aggregation queries across them. Load everything first, then call
// Validate; queries are read-only afterwards.
type Catalog struct {
	taxonomies map[string]*labels.Taxonomy
	order      []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{taxonomies: make(map[string]*labels.Taxonomy)}
}

// AddFS loads every taxonomy file under dir in fsys. Files replace earlier
// entries with the same file id, which is how external overlay directories
// shadow embedded data. A nil cache disables snapshot caching.
func (c *Catalog) AddFS(fsys fs.FS, dir string, cache ports.Cache) error {
	var paths []string
	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("read taxonomy dir %q: %w", dir, err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel := strings.TrimPrefix(path, dir+"/")
		fileID := labels.FileID(rel)
		tax, err := loadWithCache(fileID, data, cache)
		if err != nil {
			return err
		}
		if _, seen := c.taxonomies[fileID]; !seen {
			c.order = append(c.order, fileID)
		}
		c.taxonomies[fileID] = tax
	}
	return nil
}

// AddDir overlays an on-disk taxonomy directory.
func (c *Catalog) AddDir(path string, cache ports.Cache) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("taxonomy dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("taxonomy dir %q is not a directory", path)
	}
	return c.AddFS(os.DirFS(path), ".", cache)
}

// loadWithCache parses a taxonomy file, consulting the snapshot cache
// first. A matching content hash skips the YAML parse; corrupt or stale
// entries fall back to a fresh parse and are rewritten.
func loadWithCache(fileID string, data []byte, cache ports.Cache) (*labels.Taxonomy, error) {
	if cache == nil {
		return labels.Load(fileID, data)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if cachedHash, snap, err := cache.Load(fileID); err == nil && cachedHash == hash && snap != nil {
		var docs []*labels.Document
		if json.Unmarshal(snap, &docs) == nil {
			if tax, err := labels.NewTaxonomy(fileID, docs); err == nil {
				return tax, nil
			}
		}
	}

	tax, err := labels.Load(fileID, data)
	if err != nil {
		return nil, err
	}
	if snap, err := json.Marshal(tax.Documents()); err == nil {
		// A failed cache write is not a load failure.
		_ = cache.Save(fileID, hash, snap)
	}
	return tax, nil
}

// Files returns loaded file ids in load order.
func (c *Catalog) Files() []string { return c.order }

// Taxonomy returns a loaded taxonomy file.
func (c *Catalog) Taxonomy(fileID string) (*labels.Taxonomy, error) {
	tax, ok := c.taxonomies[fileID]
	if !ok {
		return nil, fmt.Errorf("no taxonomy file %q (have: %s)", fileID, strings.Join(c.order, ", "))
	}
	return tax, nil
}

// Labelsets returns the labelset names of a file, in file order.
func (c *Catalog) Labelsets(fileID string) ([]string, error) {
	tax, err := c.Taxonomy(fileID)
	if err != nil {
		return nil, err
	}
	return tax.Labelsets(), nil
}

// LabelMap returns a label map labelset from a file.
func (c *Catalog) LabelMap(fileID, set string) (*labels.LabelMap, error) {
	tax, err := c.Taxonomy(fileID)
	if err != nil {
		return nil, err
	}
	return tax.LabelMap(set)
}

// Hierarchy returns a hierarchy labelset from a file.
func (c *Catalog) Hierarchy(fileID, set string) (*labels.Hierarchy, error) {
	tax, err := c.Taxonomy(fileID)
	if err != nil {
		return nil, err
	}
	return tax.Hierarchy(set)
}

// Aggregation returns an aggregation labelset from a file.
func (c *Catalog) Aggregation(fileID, set string) (*labels.Aggregation, error) {
	tax, err := c.Taxonomy(fileID)
	if err != nil {
		return nil, err
	}
	return tax.Aggregation(set)
}

// Validate re-checks table relationships across the whole catalog: every
// parent_file reference must name a loaded aggregation table that defines
// the codes mapped into it, and every table's parent chain must terminate.
// Intra-file checks already ran at load.
func (c *Catalog) Validate() error {
	for _, fileID := range c.order {
		tax := c.taxonomies[fileID]
		for _, set := range tax.Labelsets() {
			kind, _ := tax.Kind(set)
			if kind != labels.KindAggregation {
				continue
			}
			agg, _ := tax.Aggregation(set)
			if agg.ParentFile() != "" {
				parent, err := c.resolveParentFile(agg)
				if err != nil {
					return err
				}
				if err := labels.CheckChain(agg, parent); err != nil {
					return err
				}
			}
			if err := c.checkChainTerminates(agg); err != nil {
				return err
			}
		}
	}
	return nil
}

// parentTable resolves the next table in an aggregation chain, whether
// declared via parent (same file) or parent_file (cross file). Returns
// nil for a terminal table.
func (c *Catalog) parentTable(agg *labels.Aggregation) (*labels.Aggregation, error) {
	switch {
	case agg.ParentSet() != "":
		return c.taxonomies[agg.File()].Aggregation(agg.ParentSet())
	case agg.ParentFile() != "":
		return c.resolveParentFile(agg)
	}
	return nil, nil
}

// checkChainTerminates walks the parent chain of tables starting at agg.
// A chain that revisits a table can never reach a terminal table, so
// every rollup through it would loop.
func (c *Catalog) checkChainTerminates(agg *labels.Aggregation) error {
	start := agg
	seen := map[string]bool{agg.File() + "#" + agg.Labelset(): true}
	for {
		next, err := c.parentTable(agg)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		key := next.File() + "#" + next.Labelset()
		if seen[key] {
			return &labels.ValidationError{
				File:     start.File(),
				Labelset: start.Labelset(),
				Msg:      fmt.Sprintf("aggregation parent chain revisits %s", key),
			}
		}
		seen[key] = true
		agg = next
	}
}

// resolveParentFile resolves a "file id#labelset" cross-file reference.
func (c *Catalog) resolveParentFile(agg *labels.Aggregation) (*labels.Aggregation, error) {
	ref := agg.ParentFile()
	fileID, set, ok := strings.Cut(ref, "#")
	if !ok {
		return nil, fmt.Errorf("%s/%s: parent_file %q must be \"<file id>#<labelset>\"",
			agg.File(), agg.Labelset(), ref)
	}
	tax, err := c.Taxonomy(fileID)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: parent_file: %w", agg.File(), agg.Labelset(), err)
	}
	return tax.Aggregation(set)
}

// ChainStep is one hop of a rollup chain: code mapped to its aggregate by
// the named table.
type ChainStep struct {
	File   string
	Table  string
	Code   string
	Parent string
}

// Rollup maps a code through one aggregation table, enforcing the table's
// hierarchy-level restriction.
func (c *Catalog) Rollup(fileID, table, code string) (string, error) {
	tax, err := c.Taxonomy(fileID)
	if err != nil {
		return "", err
	}
	agg, err := tax.Aggregation(table)
	if err != nil {
		return "", err
	}
	if set, _ := agg.Restriction(); set != "" {
		h, err := tax.Hierarchy(set)
		if err != nil {
			return "", err
		}
		if err := agg.CheckLevel(h, code); err != nil {
			return "", err
		}
	}
	return agg.Rollup(code)
}

// RollupChain maps a code through an aggregation table and onward through
// the table's parent chain until a terminal table is reached. The walk is
// guarded against table cycles; Validate rejects them, but the catalog can
// be queried without a prior Validate.
func (c *Catalog) RollupChain(fileID, table, code string) ([]ChainStep, error) {
	var chain []ChainStep
	seen := make(map[string]bool)
	for {
		key := fileID + "#" + table
		if seen[key] {
			return nil, &labels.CycleError{File: fileID, Labelset: table, Code: code}
		}
		seen[key] = true

		parent, err := c.Rollup(fileID, table, code)
		if err != nil {
			return nil, err
		}
		tax, _ := c.Taxonomy(fileID)
		agg, _ := tax.Aggregation(table)
		chain = append(chain, ChainStep{File: fileID, Table: table, Code: code, Parent: parent})

		next, err := c.parentTable(agg)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return chain, nil
		}
		fileID, table = next.File(), next.Labelset()
		code = parent
	}
}
