package labels

import (
	"fmt"
	"strings"
)

// Label is the resolved display record for one code.
type Label struct {
	Code     string
	Names    map[string]string // name column -> display name, e.g. name_en, name_zh
	LongName string
}

// Name returns the display name for a language-tagged name column
// ("en" -> name_en). Falls back to the long name, then the code itself.
func (l Label) Name(lang string) string {
	if v, ok := l.Names["name_"+lang]; ok && v != "" {
		return v
	}
	if l.LongName != "" {
		return l.LongName
	}
	return l.Code
}

// LabelMap resolves codes to display labels for one labelset.
type LabelMap struct {
	file   string
	set    string
	codes  []string
	labels map[string]Label
}

// Columns holding the long-form description, in precedence order.
var longNameColumns = []string{"long_name", "longname_en"}

// NewLabelMap builds a LabelMap from a parsed document. Every name and
// long-name value must be non-empty; empty display names would render as
// blank chart labels downstream.
func NewLabelMap(doc *Document) (*LabelMap, error) {
	m := &LabelMap{
		file:   doc.File,
		set:    doc.Name,
		codes:  doc.Codes,
		labels: make(map[string]Label, len(doc.Codes)),
	}
	for _, code := range doc.Codes {
		row := doc.Rows[code]
		lbl := Label{Code: code, Names: make(map[string]string)}
		for col, val := range row {
			if strings.HasPrefix(col, "name_") {
				if val == "" {
					return nil, &ValidationError{
						File: doc.File, Labelset: doc.Name,
						Msg: fmt.Sprintf("code %q: empty %s", code, col),
					}
				}
				lbl.Names[col] = val
			}
		}
		for _, col := range longNameColumns {
			if val, ok := row[col]; ok {
				if val == "" {
					return nil, &ValidationError{
						File: doc.File, Labelset: doc.Name,
						Msg: fmt.Sprintf("code %q: empty %s", code, col),
					}
				}
				if lbl.LongName == "" {
					lbl.LongName = val
				}
			}
		}
		m.labels[code] = lbl
	}
	return m, nil
}

// File returns the file id the labelset was loaded from.
func (m *LabelMap) File() string { return m.file }

// Labelset returns the labelset name.
func (m *LabelMap) Labelset() string { return m.set }

// Codes returns all codes in file order.
func (m *LabelMap) Codes() []string { return m.codes }

// Resolve returns the label for a code, or an UnknownCodeError.
func (m *LabelMap) Resolve(code string) (Label, error) {
	lbl, ok := m.labels[code]
	if !ok {
		return Label{}, &UnknownCodeError{File: m.file, Labelset: m.set, Code: code}
	}
	return lbl, nil
}
