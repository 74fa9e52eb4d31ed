// Package descriptor loads dataset descriptor records: metadata about the
// datasets the label tables describe, with paths to raw data files and
// ${var} references resolved against the document.
package descriptor

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Descriptor describes one dataset.
type Descriptor struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	ParentID       string            `yaml:"parent_id"`
	Description    string            `yaml:"description"`
	RawDataPath    string            `yaml:"raw_data_path"`
	RawDataPaths   map[string]string `yaml:"raw_data_paths"` // version id -> path
	DefaultVersion string            `yaml:"default_version"`
	Dimensions     []string          `yaml:"dimensions"`
	Notes          string            `yaml:"notes"`
}

// Key returns the map key a descriptor is filed under: the id, prefixed
// with the parent id when one is set.
func (d *Descriptor) Key() string {
	if d.ParentID != "" {
		return d.ParentID + "_" + d.ID
	}
	return d.ID
}

// Path returns the raw data path for a version. An empty version selects
// the default version, or the single un-versioned path.
func (d *Descriptor) Path(version string) (string, error) {
	if version == "" {
		version = d.DefaultVersion
	}
	if version == "" {
		if d.RawDataPath == "" {
			return "", fmt.Errorf("dataset %s: no raw data path", d.ID)
		}
		return d.RawDataPath, nil
	}
	p, ok := d.RawDataPaths[version]
	if !ok {
		return "", fmt.Errorf("dataset %s: no raw data path for version %q", d.ID, version)
	}
	return p, nil
}

// WithBasePath returns a copy with the base directory prefixed onto every
// relative raw data path.
func (d *Descriptor) WithBasePath(base string) *Descriptor {
	out := *d
	prefix := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	out.RawDataPath = prefix(d.RawDataPath)
	if d.RawDataPaths != nil {
		out.RawDataPaths = make(map[string]string, len(d.RawDataPaths))
		for v, p := range d.RawDataPaths {
			out.RawDataPaths[v] = prefix(p)
		}
	}
	return &out
}

// yamlFile is the serialized form of a descriptor file.
type yamlFile struct {
	Vars     map[string]string `yaml:"vars"`
	Datasets []*Descriptor     `yaml:"datasets"`
}

// Parse loads descriptors from a YAML document. String fields may reference
// entries of the document's vars block as ${name}; references are resolved
// to a fixed point before decoding the records.
func Parse(data []byte) (map[string]*Descriptor, error) {
	var raw yamlFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse descriptors: %w", err)
	}

	vars, err := ResolveVars(raw.Vars)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Descriptor, len(raw.Datasets))
	for _, d := range raw.Datasets {
		if d.ID == "" {
			return nil, fmt.Errorf("descriptor without id")
		}
		subst := func(s string) string { return substitute(s, vars) }
		d.Name = subst(d.Name)
		d.Description = subst(d.Description)
		d.RawDataPath = subst(d.RawDataPath)
		d.Notes = subst(d.Notes)
		for v, p := range d.RawDataPaths {
			d.RawDataPaths[v] = subst(p)
		}
		key := d.Key()
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate dataset %q", key)
		}
		out[key] = d
	}
	return out, nil
}
