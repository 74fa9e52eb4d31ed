package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := []byte(`
vars:
  data_root: data/raw
  iea_root: ${data_root}/iea

datasets:
  - id: CO2_bigco2
    parent_id: iea
    name: CO2 emissions from fuel combustion
    description: Big CO2 table, annual
    raw_data_paths:
      "2022": ${iea_root}/bigco2_2022.csv
      "2023": ${iea_root}/bigco2_2023.csv
    default_version: "2023"
    dimensions: [time, region, flow, product]
  - id: monthly_stats
    parent_id: nbs
    name: NBS monthly industrial statistics
    raw_data_path: ${data_root}/nbs/monthly.csv
`)
	descs, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, descs, 2)

	co2 := descs["iea_CO2_bigco2"]
	require.NotNil(t, co2)
	assert.Equal(t, []string{"time", "region", "flow", "product"}, co2.Dimensions)

	p, err := co2.Path("")
	require.NoError(t, err)
	assert.Equal(t, "data/raw/iea/bigco2_2023.csv", p)

	p, err = co2.Path("2022")
	require.NoError(t, err)
	assert.Equal(t, "data/raw/iea/bigco2_2022.csv", p)

	_, err = co2.Path("1999")
	require.Error(t, err)

	nbs := descs["nbs_monthly_stats"]
	require.NotNil(t, nbs)
	p, err = nbs.Path("")
	require.NoError(t, err)
	assert.Equal(t, "data/raw/nbs/monthly.csv", p)
}

func TestParse_DuplicateID(t *testing.T) {
	src := []byte(`
datasets:
  - id: a
  - id: a
`)
	_, err := Parse(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestResolveVars_Circular(t *testing.T) {
	// A two-var cycle collapses into a self-reference after one pass, which
	// substitution maps to itself. That fixed point must still be an error.
	_, err := ResolveVars(map[string]string{
		"a": "${b}",
		"b": "${a}",
	})
	var vr *VarResolutionError
	require.ErrorAs(t, err, &vr)
	assert.Contains(t, err.Error(), "circular")
}

func TestResolveVars_SelfReference(t *testing.T) {
	_, err := ResolveVars(map[string]string{"a": "${a}"})
	var vr *VarResolutionError
	require.ErrorAs(t, err, &vr)

	// Growing self-references never settle either
	_, err = ResolveVars(map[string]string{"a": "x/${a}"})
	require.ErrorAs(t, err, &vr)
}

func TestResolveVars_UnknownLeftInPlace(t *testing.T) {
	out, err := ResolveVars(map[string]string{"a": "${missing}/x"})
	require.NoError(t, err)
	assert.Equal(t, "${missing}/x", out["a"])
}

func TestWithBasePath(t *testing.T) {
	d := &Descriptor{
		ID:          "x",
		RawDataPath: "raw/x.csv",
		RawDataPaths: map[string]string{
			"v1": "raw/x_v1.csv",
			"v2": "/abs/x_v2.csv",
		},
	}
	out := d.WithBasePath("/srv/data")
	assert.Equal(t, "/srv/data/raw/x.csv", out.RawDataPath)
	assert.Equal(t, "/srv/data/raw/x_v1.csv", out.RawDataPaths["v1"])
	// Absolute paths are left alone
	assert.Equal(t, "/abs/x_v2.csv", out.RawDataPaths["v2"])
	// The original is untouched
	assert.Equal(t, "raw/x.csv", d.RawDataPath)
}
