package units

// Unit is one resolved unit: its scale factor to base units and its
// dimensionality.
type Unit struct {
	Name   string
	Factor float64
	Dims   Dims
}

// contextRule is one direction of a context: multiplying a base-unit value
// by Factor shifts its dimensionality by Delta.
type contextRule struct {
	delta  Dims
	factor float64
}

// Context is a named conversion rule bridging two dimensionalities through
// a fixed constant, e.g. natural-gas volume to mass via density.
type Context struct {
	Name  string
	Alias string
	rules []contextRule
}

// Registry holds unit definitions, prefixes, and contexts. Immutable after
// loading; safe for concurrent readers.
type Registry struct {
	name     string
	units    map[string]Unit
	prefixes map[string]float64
	contexts map[string]*Context
}

// Name returns the registry name (e.g. "NBS_zh").
func (r *Registry) Name() string { return r.name }

// Units returns the number of defined unit symbols, aliases included.
func (r *Registry) Units() int { return len(r.units) }

// Contexts returns the defined context names.
func (r *Registry) Contexts() []string {
	var names []string
	for name, ctx := range r.contexts {
		if name == ctx.Name {
			names = append(names, name)
		}
	}
	return names
}

// Resolve looks a unit symbol up, splitting off a known prefix if the bare
// symbol is not defined (万吨 = 万- prefix + 吨).
func (r *Registry) Resolve(symbol string) (Unit, error) {
	if u, ok := r.units[symbol]; ok {
		return u, nil
	}
	// Longest matching prefix wins, so "dam" resolves as deca+meter over
	// any shorter prefix with an undefined remainder.
	var best Unit
	bestLen := -1
	for prefix, factor := range r.prefixes {
		rest, ok := cutPrefix(symbol, prefix)
		if !ok {
			continue
		}
		u, defined := r.units[rest]
		if !defined || len(prefix) <= bestLen {
			continue
		}
		best = Unit{Name: symbol, Factor: factor * u.Factor, Dims: u.Dims}
		bestLen = len(prefix)
	}
	if bestLen < 0 {
		return Unit{}, &UnknownUnitError{Registry: r.name, Unit: symbol}
	}
	return best, nil
}

// Convert converts a value between two units of the same dimensionality.
// Fails with IncompatibleDimensionError when the dimensions differ; crossing
// dimensions requires ConvertIn with a context.
func (r *Registry) Convert(value float64, from, to string) (float64, error) {
	uf, err := r.Resolve(from)
	if err != nil {
		return 0, err
	}
	ut, err := r.Resolve(to)
	if err != nil {
		return 0, err
	}
	if uf.Dims != ut.Dims {
		return 0, &IncompatibleDimensionError{From: from, To: to, FromDims: uf.Dims, ToDims: ut.Dims}
	}
	return value * uf.Factor / ut.Factor, nil
}

// ConvertIn converts like Convert, but may bridge a dimension change through
// the named context's rules. The forward and inverse rules of a context are
// exact reciprocals, so round-trips reproduce the input up to float error.
func (r *Registry) ConvertIn(context string, value float64, from, to string) (float64, error) {
	ctx, ok := r.contexts[context]
	if !ok {
		return 0, &UnknownContextError{Registry: r.name, Context: context}
	}
	uf, err := r.Resolve(from)
	if err != nil {
		return 0, err
	}
	ut, err := r.Resolve(to)
	if err != nil {
		return 0, err
	}
	if uf.Dims == ut.Dims {
		return value * uf.Factor / ut.Factor, nil
	}
	need := ut.Dims.Sub(uf.Dims)
	for _, rule := range ctx.rules {
		if rule.delta == need {
			return value * uf.Factor * rule.factor / ut.Factor, nil
		}
	}
	return 0, &IncompatibleDimensionError{From: from, To: to, FromDims: uf.Dims, ToDims: ut.Dims}
}

// cutPrefix is strings.CutPrefix with the ok result needed here: it refuses
// the empty remainder so a prefix alone never resolves as a unit.
func cutPrefix(s, prefix string) (string, bool) {
	if len(prefix) >= len(s) || s[:len(prefix)] != prefix {
		return "", false
	}
	return s[len(prefix):], true
}
