package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// projectDefaults holds optional per-project CLI defaults read from
// .flashless.yaml in the project directory. Every field is optional and an
// explicit flag always wins.
type projectDefaults struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	RequestLog string `yaml:"requestLog"`
	LogLevel   string `yaml:"logLevel"`
	LiveReload *bool  `yaml:"liveReload"`
}

func loadProjectDefaults(projectDir string) (projectDefaults, error) {
	var defaults projectDefaults
	path := filepath.Join(projectDir, ".flashless.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return defaults, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return defaults, nil
}
