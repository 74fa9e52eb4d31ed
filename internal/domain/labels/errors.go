package labels

import "fmt"

// UnknownCodeError reports a lookup for a code that is not defined in the
// labelset it was resolved against.
type UnknownCodeError struct {
	File     string
	Labelset string
	Code     string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("%s/%s: unknown code %q", e.File, e.Labelset, e.Code)
}

// DanglingParentError reports a parent reference to a code that is not itself
// defined in the table that should contain it.
type DanglingParentError struct {
	File     string
	Labelset string
	Code     string
	Parent   string
}

func (e *DanglingParentError) Error() string {
	return fmt.Sprintf("%s/%s: code %q references undefined parent %q",
		e.File, e.Labelset, e.Code, e.Parent)
}

// CycleError reports a hierarchy whose parent chain does not terminate at a
// root within the number of defined codes.
type CycleError struct {
	File     string
	Labelset string
	Code     string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s/%s: parent chain from %q does not terminate (cycle)",
		e.File, e.Labelset, e.Code)
}

// LevelMismatchError reports an aggregation rollup applied to a code outside
// the hierarchy level the table is declared for.
type LevelMismatchError struct {
	File     string
	Labelset string
	Code     string
	Want     int
	Got      int
}

func (e *LevelMismatchError) Error() string {
	return fmt.Sprintf("%s/%s: code %q is at hierarchy level %d, table applies to level %d",
		e.File, e.Labelset, e.Code, e.Got, e.Want)
}

// ValidationError reports a structural problem found while loading a taxonomy
// file. Loading fails on the first violation; downstream rollups would
// silently miscompute totals otherwise.
type ValidationError struct {
	File     string
	Labelset string
	Msg      string
}

func (e *ValidationError) Error() string {
	if e.Labelset == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s/%s: %s", e.File, e.Labelset, e.Msg)
}
