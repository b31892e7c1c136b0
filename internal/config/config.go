// Package config loads strategy parameters from YAML files. Fields
// absent from the file keep their documented defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trading-signal-lab/internal/domain"
)

// Load reads a YAML parameter file over the defaults and validates the
// merged result before anything runs with it.
func Load(path string) (domain.Params, error) {
	p := domain.DefaultParams()

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Params{}, fmt.Errorf("read params file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return domain.Params{}, fmt.Errorf("parse params file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return domain.Params{}, err
	}
	return p, nil
}
