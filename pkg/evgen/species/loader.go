package species

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// tableFile is the YAML layout accepted by LoadYAML.
//
//	species:
//	  - id: 211
//	    name: pi+
//	    anti_name: pi-
//	    charge_type: 3
//	    m0: 0.13957
type tableFile struct {
	Species []Entry `yaml:"species"`
}

// LoadYAML adds the species listed in r to t, replacing existing ids.
func LoadYAML(t *Table, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read species: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse species yaml: %w", err)
	}
	for i, e := range f.Species {
		if err := t.Add(e); err != nil {
			return fmt.Errorf("species entry %d: %w", i, err)
		}
	}
	return nil
}

// LoadYAMLFile is LoadYAML reading from a file path.
func LoadYAMLFile(t *Table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open species file: %w", err)
	}
	defer f.Close()
	return LoadYAML(t, f)
}
