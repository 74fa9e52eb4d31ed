// Package taxonomy embeds the label tables and unit definition files that
// ship with the module. This is a standalone package with no imports to
// avoid circular dependencies.
//
// Usage:
//
//	labels.LoadFS(taxonomy.FS, "iea")
//	units.LoadFS(taxonomy.FS, "units/pint_units_NBS_zh.txt", "NBS_zh", true)
package taxonomy

import "embed"

//go:embed iea/*.yaml nbs/*.yaml units/*.txt
var FS embed.FS
