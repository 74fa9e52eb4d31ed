// Package units implements a small unit registry in the style of a pint
// definition file: symbolic units defined as multiples of base units,
// prefixes, and named contexts that bridge otherwise-incompatible dimensions
// through a fixed constant (natural-gas volume to mass via density).
package units

import (
	"fmt"
	"strings"
)

// Dims is a vector of base-dimension exponents. Two quantities are directly
// convertible iff their Dims are equal.
type Dims struct {
	Mass   int
	Length int
	Time   int
	Temp   int
	Amount int
}

// Zero reports whether the vector is dimensionless.
func (d Dims) Zero() bool { return d == Dims{} }

// Add returns the element-wise sum (multiplying quantities).
func (d Dims) Add(o Dims) Dims {
	return Dims{d.Mass + o.Mass, d.Length + o.Length, d.Time + o.Time, d.Temp + o.Temp, d.Amount + o.Amount}
}

// Sub returns the element-wise difference (dividing quantities).
func (d Dims) Sub(o Dims) Dims {
	return Dims{d.Mass - o.Mass, d.Length - o.Length, d.Time - o.Time, d.Temp - o.Temp, d.Amount - o.Amount}
}

// Pow returns the vector scaled by an integer exponent.
func (d Dims) Pow(n int) Dims {
	return Dims{d.Mass * n, d.Length * n, d.Time * n, d.Temp * n, d.Amount * n}
}

// String renders the vector in bracket notation, e.g. [mass]/[length]^3.
func (d Dims) String() string {
	if d.Zero() {
		return "[dimensionless]"
	}
	parts := []struct {
		name string
		exp  int
	}{
		{"mass", d.Mass}, {"length", d.Length}, {"time", d.Time},
		{"temperature", d.Temp}, {"substance", d.Amount},
	}
	var num, den []string
	for _, p := range parts {
		switch {
		case p.exp == 1:
			num = append(num, "["+p.name+"]")
		case p.exp > 1:
			num = append(num, fmt.Sprintf("[%s]^%d", p.name, p.exp))
		case p.exp == -1:
			den = append(den, "["+p.name+"]")
		case p.exp < 0:
			den = append(den, fmt.Sprintf("[%s]^%d", p.name, -p.exp))
		}
	}
	s := strings.Join(num, "*")
	if s == "" {
		s = "1"
	}
	if len(den) > 0 {
		s += "/" + strings.Join(den, "/")
	}
	return s
}

// Named dimensionalities usable in context rule declarations.
var namedDims = map[string]Dims{
	"mass":        {Mass: 1},
	"length":      {Length: 1},
	"area":        {Length: 2},
	"volume":      {Length: 3},
	"time":        {Time: 1},
	"temperature": {Temp: 1},
	"substance":   {Amount: 1},
	"energy":      {Mass: 1, Length: 2, Time: -2},
	"power":       {Mass: 1, Length: 2, Time: -3},
}
