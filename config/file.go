package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FindConfig returns the first location that is a regular file.
func FindConfig(locations []string) (string, bool) {

	for _, val := range locations {

		stat, err := os.Stat(val)
		if err != nil {
			continue
		}

		if stat.Mode().IsRegular() {
			return val, true
		}
	}

	return "", false
}

// LoadConfigFile decodes a yml or json config on top of the defaults.
func LoadConfigFile(path string) (*RootConfig, error) {

	file, err := os.OpenFile(path, os.O_RDONLY, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %s", err.Error())
	}

	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get config file info: %s", err.Error())
	}

	if !info.Mode().IsRegular() {
		return nil, errors.New("failed to read config file: config file must be a regular file")
	}

	cfg := Default()

	switch {
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %s", err.Error())
		}
	case strings.HasSuffix(path, ".json"):
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %s", err.Error())
		}
	default:
		return nil, errors.New("unsupported config file format")
	}

	return &cfg, nil
}
