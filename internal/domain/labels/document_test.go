package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_OrientIndex(t *testing.T) {
	src := []byte(`
fuel_hierarchy:
  orient: index
  columns: [parent, level, long_name]
  ordered: true
  data:
    TOTAL: {parent: "", level: 1, long_name: Total}
    COAL: {parent: TOTAL, level: 2, long_name: Coal}
    GAS: {parent: TOTAL, level: 2, long_name: Natural gas}
`)
	docs, err := ParseFile("test/fuels", src)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "fuel_hierarchy", doc.Name)
	assert.Equal(t, OrientIndex, doc.Orient)
	assert.True(t, doc.Ordered)
	assert.Equal(t, KindHierarchy, doc.Kind())
	// File order is preserved for ordered sets
	assert.Equal(t, []string{"TOTAL", "COAL", "GAS"}, doc.Codes)
	assert.Equal(t, "TOTAL", doc.Rows["COAL"]["parent"])
	assert.Equal(t, "", doc.Rows["TOTAL"]["parent"])
}

func TestParseFile_OrientColumns(t *testing.T) {
	src := []byte(`
fuel:
  orient: columns
  columns: [name_en, long_name]
  ordered: false
  data:
    name_en:
      COAL: Coal
      GAS: Natural gas
    long_name:
      COAL: Coal and coal products
      GAS: Natural gas
`)
	docs, err := ParseFile("test/fuels", src)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, KindLabels, doc.Kind())
	assert.Equal(t, []string{"COAL", "GAS"}, doc.Codes)
	assert.Equal(t, "Coal and coal products", doc.Rows["COAL"]["long_name"])
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "bad orient",
			src: `
fuel:
  orient: rows
  columns: [name_en]
  data: {}
`,
			want: "orient",
		},
		{
			name: "missing columns",
			src: `
fuel:
  orient: index
  data: {}
`,
			want: "columns",
		},
		{
			name: "duplicate code",
			src: `
fuel:
  orient: index
  columns: [name_en]
  data:
    COAL: {name_en: Coal}
    COAL: {name_en: Coal again}
`,
			want: "duplicate code",
		},
		{
			name: "undeclared column",
			src: `
fuel:
  orient: index
  columns: [name_en]
  data:
    COAL: {name_en: Coal, name_zh: 煤炭}
`,
			want: "undeclared column",
		},
		{
			name: "columns orient code mismatch",
			src: `
fuel:
  orient: columns
  columns: [name_en, long_name]
  data:
    name_en:
      COAL: Coal
    long_name:
      GAS: Natural gas
`,
			want: "missing",
		},
		{
			name: "parent and parent_file together",
			src: `
agg:
  orient: index
  columns: [parent]
  parent: other
  parent_file: other_file#set
  data:
    COAL: {parent: FOSSIL}
`,
			want: "mutually exclusive",
		},
		{
			name: "hierarchy_level without hierarchy",
			src: `
agg:
  orient: index
  columns: [parent]
  hierarchy_level: 3
  data:
    COAL: {parent: FOSSIL}
`,
			want: "hierarchy_level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile("test/bad", []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDocumentKind(t *testing.T) {
	assert.Equal(t, KindHierarchy, (&Document{Columns: []string{"parent", "level", "long_name"}}).Kind())
	assert.Equal(t, KindAggregation, (&Document{Columns: []string{"parent"}}).Kind())
	assert.Equal(t, KindLabels, (&Document{Columns: []string{"name_en"}}).Kind())
}
