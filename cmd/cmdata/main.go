// cmdata is a query and validation tool for energy-statistics taxonomies:
// label tables, code hierarchies, aggregation lattices, and unit conversion.
package main

import (
	"os"

	"github.com/eslabs/cmdata/cmd/cmdata/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
