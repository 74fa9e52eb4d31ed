package units

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
)

// Load reads a pint-style unit definition file into a registry. When
// includeDefault is true the file extends the builtin registry, which is how
// domain files add units on top of the SI base set.
//
// Supported line forms:
//
//	吨 = 1000 * kilogram = t_zh      unit with aliases
//	万- = 1e4                        prefix (trailing hyphen)
//	@context natgas = ng             context block with bracketed
//	    [volume] -> [mass]: value * ngas_density
//	@end
func Load(name string, src io.Reader, includeDefault bool) (*Registry, error) {
	var r *Registry
	if includeDefault {
		r = Builtin()
		r.name = name
	} else {
		r = &Registry{
			name:     name,
			units:    make(map[string]Unit),
			prefixes: make(map[string]float64),
			contexts: make(map[string]*Context),
		}
	}

	var ctx *Context // non-nil inside an @context block
	scanner := bufio.NewScanner(src)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}
		fail := func(msg string, args ...any) error {
			return &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf(msg, args...)}
		}

		switch {
		case strings.HasPrefix(line, "@context"):
			if ctx != nil {
				return nil, fail("nested @context")
			}
			var err error
			ctx, err = parseContextHeader(line)
			if err != nil {
				return nil, fail("%v", err)
			}

		case line == "@end":
			if ctx == nil {
				return nil, fail("@end outside @context")
			}
			if len(ctx.rules) == 0 {
				return nil, fail("context %q has no rules", ctx.Name)
			}
			r.contexts[ctx.Name] = ctx
			if ctx.Alias != "" {
				r.contexts[ctx.Alias] = ctx
			}
			ctx = nil

		case ctx != nil:
			rule, err := r.parseContextRule(line)
			if err != nil {
				return nil, fail("%v", err)
			}
			ctx.rules = append(ctx.rules, rule)

		default:
			if err := r.parseDefinition(line); err != nil {
				return nil, fail("%v", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if ctx != nil {
		return nil, &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf("unterminated @context %q", ctx.Name)}
	}
	return r, nil
}

// LoadFS loads a definition file from a filesystem (the embedded taxonomy FS).
func LoadFS(fsys fs.FS, path, name string, includeDefault bool) (*Registry, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open unit definitions %s: %w", path, err)
	}
	defer f.Close()
	return Load(name, f, includeDefault)
}

// stripComment drops "#" comments and surrounding whitespace.
func stripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// parseContextHeader parses "@context name" or "@context name = alias".
func parseContextHeader(line string) (*Context, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "@context"))
	if rest == "" {
		return nil, fmt.Errorf("@context requires a name")
	}
	parts := strings.Split(rest, "=")
	ctx := &Context{Name: strings.TrimSpace(parts[0])}
	if len(parts) == 2 {
		ctx.Alias = strings.TrimSpace(parts[1])
	} else if len(parts) > 2 {
		return nil, fmt.Errorf("malformed @context header %q", line)
	}
	return ctx, nil
}

// parseContextRule parses "[volume] -> [mass]: value * ngas_density".
// The expression right of the colon must be "value" times or over a defined
// constant; the constant's dimensionality must carry from to to.
func (r *Registry) parseContextRule(line string) (contextRule, error) {
	head, expr, ok := strings.Cut(line, ":")
	if !ok {
		return contextRule{}, fmt.Errorf("context rule missing ':' in %q", line)
	}
	fromName, toName, ok := strings.Cut(head, "->")
	if !ok {
		return contextRule{}, fmt.Errorf("context rule missing '->' in %q", line)
	}
	from, err := bracketDims(fromName)
	if err != nil {
		return contextRule{}, err
	}
	to, err := bracketDims(toName)
	if err != nil {
		return contextRule{}, err
	}

	fields := strings.Fields(expr)
	if len(fields) < 3 || fields[0] != "value" || (fields[1] != "*" && fields[1] != "/") {
		return contextRule{}, fmt.Errorf("context rule expression must be 'value * const' or 'value / const', got %q", strings.TrimSpace(expr))
	}
	konst, err := r.eval(strings.Join(fields[2:], " "))
	if err != nil {
		return contextRule{}, err
	}

	rule := contextRule{delta: konst.Dims, factor: konst.Factor}
	if fields[1] == "/" {
		rule.delta = Dims{}.Sub(konst.Dims)
		rule.factor = 1 / konst.Factor
	}
	if got := from.Add(rule.delta); got != to {
		return contextRule{}, fmt.Errorf("context rule constant carries %s to %s, not %s", from, got, to)
	}
	return rule, nil
}

// bracketDims parses a bracketed dimension name like "[volume]".
func bracketDims(s string) (Dims, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return Dims{}, fmt.Errorf("expected bracketed dimension, got %q", s)
	}
	name := s[1 : len(s)-1]
	d, ok := namedDims[name]
	if !ok {
		return Dims{}, fmt.Errorf("unknown dimension %q", name)
	}
	return d, nil
}

// parseDefinition parses a unit or prefix line.
func (r *Registry) parseDefinition(line string) error {
	parts := strings.Split(line, "=")
	if len(parts) < 2 {
		return fmt.Errorf("malformed definition %q", line)
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return fmt.Errorf("definition with empty name")
	}

	// Trailing hyphen declares a prefix: 万- = 1e4
	if strings.HasSuffix(name, "-") {
		factor, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return fmt.Errorf("prefix %q: %w", name, err)
		}
		r.definePrefix(strings.TrimSuffix(name, "-"), factor)
		for _, alias := range parts[2:] {
			alias = strings.TrimSpace(alias)
			if alias == "_" || alias == "" {
				continue
			}
			r.definePrefix(strings.TrimSuffix(alias, "-"), factor)
		}
		return nil
	}

	if _, dup := r.units[name]; dup {
		return fmt.Errorf("unit %q already defined", name)
	}
	u, err := r.eval(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("unit %q: %w", name, err)
	}
	u.Name = name
	r.units[name] = u
	for _, alias := range parts[2:] {
		alias = strings.TrimSpace(alias)
		if alias == "_" || alias == "" {
			continue
		}
		if _, dup := r.units[alias]; dup {
			return fmt.Errorf("alias %q already defined", alias)
		}
		r.units[alias] = Unit{Name: alias, Factor: u.Factor, Dims: u.Dims}
	}
	return nil
}

func (r *Registry) definePrefix(name string, factor float64) {
	r.prefixes[name] = factor
}

// eval evaluates a definition expression: factors and previously defined
// units joined by '*' and '/', with optional integer '**' exponents.
// Example: "1e9 * meter ** 3".
func (r *Registry) eval(expr string) (Unit, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return Unit{}, err
	}
	if len(tokens) == 0 {
		return Unit{}, fmt.Errorf("empty expression")
	}

	result := Unit{Factor: 1}
	op := "*"
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "*" || tok == "/" {
			op = tok
			continue
		}

		var term Unit
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			term = Unit{Factor: f}
		} else {
			u, err := r.Resolve(tok)
			if err != nil {
				return Unit{}, err
			}
			term = u
		}

		// Optional exponent: "** n"
		if i+2 < len(tokens) && tokens[i+1] == "**" {
			exp, err := strconv.Atoi(tokens[i+2])
			if err != nil {
				return Unit{}, fmt.Errorf("exponent %q is not an integer", tokens[i+2])
			}
			term = powUnit(term, exp)
			i += 2
		}

		switch op {
		case "*":
			result.Factor *= term.Factor
			result.Dims = result.Dims.Add(term.Dims)
		case "/":
			result.Factor /= term.Factor
			result.Dims = result.Dims.Sub(term.Dims)
		}
	}
	return result, nil
}

func powUnit(u Unit, exp int) Unit {
	f := 1.0
	for i := 0; i < exp; i++ {
		f *= u.Factor
	}
	for i := 0; i > exp; i-- {
		f /= u.Factor
	}
	return Unit{Factor: f, Dims: u.Dims.Pow(exp)}
}

// tokenize splits an expression into symbols, numbers, and the operators
// '*', '/', '**'. Operators need not be whitespace-separated.
func tokenize(expr string) ([]string, error) {
	expr = strings.ReplaceAll(expr, "**", " ** ")
	var out []string
	for _, field := range strings.Fields(expr) {
		if field == "**" || field == "*" || field == "/" {
			out = append(out, field)
			continue
		}
		rest := field
		for rest != "" {
			i := strings.IndexAny(rest, "*/")
			if i < 0 {
				out = append(out, rest)
				break
			}
			if i > 0 {
				out = append(out, rest[:i])
			}
			out = append(out, rest[i:i+1])
			rest = rest[i+1:]
			if rest == "" {
				return nil, fmt.Errorf("expression ends with operator: %q", expr)
			}
		}
	}
	return out, nil
}
