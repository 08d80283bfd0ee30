package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// readValues loads a flat YAML mapping of field name to value. Scalars are
// kept as written so "007" stays "007".
func readValues(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values %s: %w", path, err)
	}
	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	values := make(map[string]string, len(nodes))
	for name, node := range nodes {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse values %s: %q must be a scalar", path, name)
		}
		values[name] = node.Value
	}
	return values, nil
}
