package units

import "fmt"

// UnknownUnitError reports a unit symbol not defined in the registry,
// with or without a known prefix.
type UnknownUnitError struct {
	Registry string
	Unit     string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("registry %s: unknown unit %q", e.Registry, e.Unit)
}

// UnknownContextError reports a context name not defined in the registry.
type UnknownContextError struct {
	Registry string
	Context  string
}

func (e *UnknownContextError) Error() string {
	return fmt.Sprintf("registry %s: unknown context %q", e.Registry, e.Context)
}

// IncompatibleDimensionError reports a conversion across different
// dimensionalities that no invoked context can bridge.
type IncompatibleDimensionError struct {
	From     string
	To       string
	FromDims Dims
	ToDims   Dims
}

func (e *IncompatibleDimensionError) Error() string {
	return fmt.Sprintf("cannot convert %q (%s) to %q (%s)",
		e.From, e.FromDims, e.To, e.ToDims)
}

// ParseError reports a malformed line in a unit definition file.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}
