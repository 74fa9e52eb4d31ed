package units

// Builtin returns the default registry: SI base units, the handful of
// derived mass/volume/energy units the taxonomy data uses, and metric
// prefixes. Domain definition files extend this set.
func Builtin() *Registry {
	r := &Registry{
		name:     "default",
		units:    make(map[string]Unit),
		prefixes: make(map[string]float64),
		contexts: make(map[string]*Context),
	}

	base := func(name string, dims Dims, aliases ...string) {
		r.units[name] = Unit{Name: name, Factor: 1, Dims: dims}
		for _, a := range aliases {
			r.units[a] = Unit{Name: a, Factor: 1, Dims: dims}
		}
	}
	derived := func(name string, factor float64, dims Dims, aliases ...string) {
		r.units[name] = Unit{Name: name, Factor: factor, Dims: dims}
		for _, a := range aliases {
			r.units[a] = Unit{Name: a, Factor: factor, Dims: dims}
		}
	}

	// Base units: mass in kilograms, length in meters, time in seconds.
	base("kilogram", Dims{Mass: 1}, "kg")
	base("meter", Dims{Length: 1}, "m", "metre")
	base("second", Dims{Time: 1}, "s", "sec")
	base("kelvin", Dims{Temp: 1}, "K")
	base("mole", Dims{Amount: 1}, "mol")

	derived("gram", 1e-3, Dims{Mass: 1}, "g")
	derived("tonne", 1e3, Dims{Mass: 1}, "t", "metric_ton")
	derived("liter", 1e-3, Dims{Length: 3}, "L", "l", "litre")
	derived("minute", 60, Dims{Time: 1}, "min")
	derived("hour", 3600, Dims{Time: 1}, "h", "hr")
	derived("day", 86400, Dims{Time: 1})
	derived("joule", 1, Dims{Mass: 1, Length: 2, Time: -2}, "J")
	derived("watt", 1, Dims{Mass: 1, Length: 2, Time: -3}, "W")
	derived("watt_hour", 3600, Dims{Mass: 1, Length: 2, Time: -2}, "Wh")
	// Energy-statistics staple: tonne of coal equivalent (29.3076 GJ exactly).
	derived("tce", 29.3076e9, Dims{Mass: 1, Length: 2, Time: -2})

	for prefix, factor := range map[string]float64{
		"deca":  1e1,
		"hecto": 1e2,
		"kilo":  1e3,
		"mega":  1e6,
		"giga":  1e9,
		"tera":  1e12,
		"peta":  1e15,
		"deci":  1e-1,
		"centi": 1e-2,
		"milli": 1e-3,
		"micro": 1e-6,
	} {
		r.prefixes[prefix] = factor
	}
	// Short symbol prefixes, for compounds like kt, MWh, TWh, cm.
	for prefix, factor := range map[string]float64{
		"da": 1e1, "k": 1e3, "M": 1e6, "G": 1e9, "T": 1e12, "P": 1e15,
		"d": 1e-1, "c": 1e-2,
	} {
		r.prefixes[prefix] = factor
	}

	return r
}
