package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadWeights reads a YAML mapping of criterion name to weight, e.g.
//
//	price: 4
//	dropping_time_preference: 0.5
//
// An empty path yields no overrides. Entries whose value is not a number are
// skipped; unknown criteria are ignored when the overrides are merged.
func LoadWeights(path string) (map[string]float64, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read weights file %q", path)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "config: parse weights file %q", path)
	}

	overrides := make(map[string]float64, len(raw))
	for key, node := range raw {
		var v float64
		if node.Kind != yaml.ScalarNode || node.Decode(&v) != nil {
			continue
		}
		overrides[key] = v
	}
	return overrides, nil
}
