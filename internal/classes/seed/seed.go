// Package seed holds the default class catalog.
package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"schoolclasses/pkg/model"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Classes []*model.ClassOffering `yaml:"classes"`
}

// Default returns a fresh copy of the built-in catalog.
func Default() ([]*model.ClassOffering, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the built-in one when path is empty.
func Load(path string) ([]*model.ClassOffering, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed catalog: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]*model.ClassOffering, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}

	for i, class := range file.Classes {
		if class == nil {
			return nil, fmt.Errorf("seed catalog entry %d is empty", i)
		}
		if class.Name == "" {
			return nil, fmt.Errorf("seed catalog entry %d has no name", i)
		}
		if class.Seats < 0 || class.Price < 0 {
			return nil, fmt.Errorf("seed catalog entry %q has negative seats or price", class.Name)
		}
	}

	return file.Classes, nil
}
