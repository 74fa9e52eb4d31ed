package labels

// Aggregation maps fine-grained codes to a coarser reporting bucket.
// Tables chain: an aggregation's parent table (same file or another file)
// holds the next coarser level, forming a multi-level lattice such as
// subcategory -> category -> major category.
type Aggregation struct {
	file  string
	set   string
	codes []string
	to    map[string]string // child code -> parent aggregate code

	parentSet  string // next table in the same file, if any
	parentFile string // next table's file id, if in another file

	hierarchySet   string // hierarchy labelset the level restriction checks against
	hierarchyLevel int    // 0 = unrestricted
}

// NewAggregation builds an aggregation table from a parsed document.
// Each child maps to exactly one parent aggregate; duplicate children are
// rejected at parse time, empty parents here.
func NewAggregation(doc *Document) (*Aggregation, error) {
	a := &Aggregation{
		file:           doc.File,
		set:            doc.Name,
		codes:          doc.Codes,
		to:             make(map[string]string, len(doc.Codes)),
		parentSet:      doc.Parent,
		parentFile:     doc.ParentFile,
		hierarchySet:   doc.Hierarchy,
		hierarchyLevel: doc.HierarchyLevel,
	}
	for _, code := range doc.Codes {
		parent := doc.Rows[code]["parent"]
		if parent == "" {
			return nil, &DanglingParentError{File: a.file, Labelset: a.set, Code: code, Parent: ""}
		}
		a.to[code] = parent
	}
	return a, nil
}

// File returns the file id the table was loaded from.
func (a *Aggregation) File() string { return a.file }

// Labelset returns the labelset name.
func (a *Aggregation) Labelset() string { return a.set }

// Codes returns all child codes in file order.
func (a *Aggregation) Codes() []string { return a.codes }

// ParentSet returns the labelset name of the next coarser table in the same
// file, or empty if the chain continues in another file or ends here.
func (a *Aggregation) ParentSet() string { return a.parentSet }

// ParentFile returns the file id of the next coarser table, or empty.
func (a *Aggregation) ParentFile() string { return a.parentFile }

// Restriction returns the hierarchy labelset and level this table is
// declared for. A zero level means the table accepts codes at any level.
func (a *Aggregation) Restriction() (set string, level int) {
	return a.hierarchySet, a.hierarchyLevel
}

// Parents returns the distinct parent aggregate codes, in first-use order.
func (a *Aggregation) Parents() []string {
	seen := make(map[string]bool)
	var parents []string
	for _, code := range a.codes {
		p := a.to[code]
		if !seen[p] {
			seen[p] = true
			parents = append(parents, p)
		}
	}
	return parents
}

// Contains reports whether code is a child in this table.
func (a *Aggregation) Contains(code string) bool {
	_, ok := a.to[code]
	return ok
}

// Rollup returns the parent aggregate for a child code. The hierarchy-level
// restriction, if any, is enforced by the caller (which owns the hierarchy
// table) via CheckLevel.
func (a *Aggregation) Rollup(code string) (string, error) {
	parent, ok := a.to[code]
	if !ok {
		return "", &UnknownCodeError{File: a.file, Labelset: a.set, Code: code}
	}
	return parent, nil
}

// CheckLevel enforces the table's hierarchy-level restriction against the
// given hierarchy. Applying a restricted table to a code at another level is
// a usage error, not a data error.
func (a *Aggregation) CheckLevel(h *Hierarchy, code string) error {
	if a.hierarchyLevel == 0 {
		return nil
	}
	level, err := h.Level(code)
	if err != nil {
		return err
	}
	if level != a.hierarchyLevel {
		return &LevelMismatchError{
			File: a.file, Labelset: a.set, Code: code,
			Want: a.hierarchyLevel, Got: level,
		}
	}
	return nil
}
