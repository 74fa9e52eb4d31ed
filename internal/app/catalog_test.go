package app

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslabs/cmdata/internal/adapters/bboltcache"
	"github.com/eslabs/cmdata/internal/domain/labels"
	"github.com/eslabs/cmdata/taxonomy"
)

func embeddedCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	require.NoError(t, c.AddFS(taxonomy.FS, ".", nil))
	require.NoError(t, c.Validate())
	return c
}

func TestCatalog_EmbeddedFiles(t *testing.T) {
	c := embeddedCatalog(t)
	assert.Equal(t, []string{"iea/CO2_bigco2", "nbs/nbs_monthly"}, c.Files())

	sets, err := c.Labelsets("iea/CO2_bigco2")
	require.NoError(t, err)
	assert.Contains(t, sets, "flow_hierarchy")

	_, err = c.Taxonomy("iea/WEB_wbal")
	require.Error(t, err)
}

func TestCatalog_EndToEnd_CrudeOil(t *testing.T) {
	c := embeddedCatalog(t)

	m, err := c.LabelMap("iea/CO2_bigco2", "product")
	require.NoError(t, err)
	lbl, err := m.Resolve("CRUDEOIL")
	require.NoError(t, err)
	assert.Equal(t, "Crude oil", lbl.LongName)

	h, err := c.Hierarchy("iea/CO2_bigco2", "product_hierarchy")
	require.NoError(t, err)
	chain, err := h.Ancestors("CRUDEOIL")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, "TOTAL", chain[0].Code)

	parent, err := c.Rollup("iea/CO2_bigco2", "product_agg", "DIESEL")
	require.NoError(t, err)
	assert.Equal(t, "CRUDEOIL", parent)
}

func TestCatalog_RollupChain(t *testing.T) {
	c := embeddedCatalog(t)

	chain, err := c.RollupChain("nbs/nbs_monthly", "industry_subcategory", "FERROUS")
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, "HEAVYIND", chain[0].Parent)
	assert.Equal(t, "SECONDARY", chain[1].Parent)
	assert.Equal(t, "ALLINDUSTRY", chain[2].Parent)
}

func TestCatalog_RollupLevelMismatch(t *testing.T) {
	c := embeddedCatalog(t)

	// MANUF is a level-2 branch; the subcategory table is declared for level 3
	_, err := c.Rollup("nbs/nbs_monthly", "industry_subcategory", "MANUF")
	var mismatch *labels.LevelMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCatalog_CrossFileChain(t *testing.T) {
	fsys := fstest.MapFS{
		"a/fine_labels.yaml": {Data: []byte(`
fine_agg:
  orient: index
  columns: [parent]
  parent_file: "b/coarse#coarse_agg"
  data:
    X: {parent: MID}
`)},
		"b/coarse_labels.yaml": {Data: []byte(`
coarse_agg:
  orient: index
  columns: [parent]
  data:
    MID: {parent: TOP}
`)},
	}
	c := NewCatalog()
	require.NoError(t, c.AddFS(fsys, ".", nil))
	require.NoError(t, c.Validate())

	chain, err := c.RollupChain("a/fine", "fine_agg", "X")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "MID", chain[0].Parent)
	assert.Equal(t, "TOP", chain[1].Parent)
	assert.Equal(t, "b/coarse", chain[1].File)
}

func TestCatalog_CrossFileChain_BrokenRef(t *testing.T) {
	fsys := fstest.MapFS{
		"a/fine_labels.yaml": {Data: []byte(`
fine_agg:
  orient: index
  columns: [parent]
  parent_file: "b/missing#coarse_agg"
  data:
    X: {parent: MID}
`)},
	}
	c := NewCatalog()
	require.NoError(t, c.AddFS(fsys, ".", nil))
	require.Error(t, c.Validate())
}

func TestCatalog_CyclicChainRejected(t *testing.T) {
	// Two tables naming each other as parent pass every one-hop check,
	// so the cycle must be caught at the table-graph level.
	fsys := fstest.MapFS{
		"x/loop_labels.yaml": {Data: []byte(`
agg_a:
  orient: index
  columns: [parent]
  parent: agg_b
  data:
    X: {parent: Y}
agg_b:
  orient: index
  columns: [parent]
  parent: agg_a
  data:
    Y: {parent: X}
`)},
	}
	c := NewCatalog()
	require.NoError(t, c.AddFS(fsys, ".", nil))

	var verr *labels.ValidationError
	require.ErrorAs(t, c.Validate(), &verr)
	assert.Contains(t, verr.Error(), "revisits")

	// A catalog queried without Validate must still terminate
	_, err := c.RollupChain("x/loop", "agg_a", "X")
	var cyc *labels.CycleError
	require.ErrorAs(t, err, &cyc)
}

func TestCatalog_OverlayShadowsEmbedded(t *testing.T) {
	overlay := fstest.MapFS{
		"iea/CO2_bigco2_labels.yaml": {Data: []byte(`
product:
  orient: index
  columns: [name_en]
  data:
    ONLYONE: {name_en: Only one}
`)},
	}
	c := NewCatalog()
	require.NoError(t, c.AddFS(taxonomy.FS, ".", nil))
	require.NoError(t, c.AddFS(overlay, ".", nil))
	require.NoError(t, c.Validate())

	// Still one entry in the file list, but the overlay content won
	assert.Equal(t, []string{"iea/CO2_bigco2", "nbs/nbs_monthly"}, c.Files())
	m, err := c.LabelMap("iea/CO2_bigco2", "product")
	require.NoError(t, err)
	_, err = m.Resolve("CRUDEOIL")
	require.Error(t, err)
	_, err = m.Resolve("ONLYONE")
	require.NoError(t, err)
}

func TestCatalog_CacheRoundTrip(t *testing.T) {
	store, err := bboltcache.NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	// First load populates the cache
	c1 := NewCatalog()
	require.NoError(t, c1.AddFS(taxonomy.FS, ".", store))
	hash, snapshot, err := store.Load("iea/CO2_bigco2")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEmpty(t, snapshot)

	// Second load reads the snapshot and answers the same queries
	c2 := NewCatalog()
	require.NoError(t, c2.AddFS(taxonomy.FS, ".", store))
	require.NoError(t, c2.Validate())
	m, err := c2.LabelMap("iea/CO2_bigco2", "product")
	require.NoError(t, err)
	lbl, err := m.Resolve("CRUDEOIL")
	require.NoError(t, err)
	assert.Equal(t, "Crude oil", lbl.LongName)
}

func TestCatalog_CacheCorruptEntryFallsBack(t *testing.T) {
	store, err := bboltcache.NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	c1 := NewCatalog()
	require.NoError(t, c1.AddFS(taxonomy.FS, ".", store))
	hash, _, err := store.Load("iea/CO2_bigco2")
	require.NoError(t, err)
	require.NoError(t, store.Save("iea/CO2_bigco2", hash, []byte("not json")))

	c2 := NewCatalog()
	require.NoError(t, c2.AddFS(taxonomy.FS, ".", store))
	m, err := c2.LabelMap("iea/CO2_bigco2", "product")
	require.NoError(t, err)
	_, err = m.Resolve("CRUDEOIL")
	require.NoError(t, err)
}

func TestLoadRegistry(t *testing.T) {
	names := RegistryNames()
	assert.Equal(t, []string{"NBS_zh"}, names)

	r1, err := LoadRegistry("NBS_zh")
	require.NoError(t, err)
	r2, err := LoadRegistry("NBS_zh")
	require.NoError(t, err)
	assert.Same(t, r1, r2, "registries are cached")

	out, err := r1.ConvertIn("natgas", 1380, "m3", "kg")
	require.NoError(t, err)
	assert.InDelta(t, 1000, out, 1e-6)

	_, err = LoadRegistry("nope")
	require.Error(t, err)
}
