package descriptor

import (
	"fmt"
	"os"
	"regexp"
)

// maxIterations bounds variable resolution; vars referencing vars resolve
// over multiple passes, and circular definitions never settle.
const maxIterations = 20

// VarResolutionError is returned when a document-defined variable still
// references another document-defined variable after resolution, which
// indicates a circular definition. A cycle either never settles within
// maxIterations or collapses into a self-reference that substitution maps
// to itself.
type VarResolutionError struct {
	Remaining string
}

func (e *VarResolutionError) Error() string {
	return fmt.Sprintf("circular variable definition, unresolved after %d passes: %s",
		maxIterations, e.Remaining)
}

var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ResolveVars resolves ${name} references between the vars themselves,
// iterating to a fixed point. Unknown names are left in place so a missing
// var surfaces verbatim in the output rather than vanishing.
func ResolveVars(vars map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	for i := 0; i < maxIterations; i++ {
		changed := false
		for k, v := range out {
			nv := substitute(v, out)
			if nv != v {
				out[k] = nv
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	// Convergence alone is not enough: a cycle collapses into a
	// self-reference like a=${a}, which is its own fixed point. Any
	// surviving reference to a document-defined name is circular.
	// References to names the document never defines stay in place.
	for k, v := range out {
		for _, m := range varPattern.FindAllStringSubmatch(v, -1) {
			if _, ok := vars[m[1]]; ok {
				return nil, &VarResolutionError{Remaining: k + "=" + v}
			}
		}
	}
	return out, nil
}

// substitute replaces ${name} references in s from vars, falling back to
// the process environment for names not defined in the document.
func substitute(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := varPattern.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return m
	})
}
