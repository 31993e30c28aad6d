package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// loadMerged loads base.yaml plus an optional environment-specific overlay
// (<env>.yaml) from configDir and merges them, overlay winning.
func loadMerged(env, configDir string) (map[string]interface{}, error) {
	if configDir == "" {
		configDir = "config"
	}

	base, err := loadYAMLFile(filepath.Join(configDir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load base.yaml: %w", err)
	}

	if env == "" || env == "base" {
		return base, nil
	}

	envFile := filepath.Join(configDir, fmt.Sprintf("%s.yaml", env))
	if _, err := os.Stat(envFile); err != nil {
		return base, nil
	}
	overlay, err := loadYAMLFile(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s.yaml: %w", env, err)
	}

	return mergeMaps(base, overlay), nil
}

func loadYAMLFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config map[string]interface{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return config, nil
}

// mergeMaps merges src over dst, recursing into nested maps.
func mergeMaps(dst, src map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for k, v := range dst {
		result[k] = v
	}

	for k, v := range src {
		if dstMap, ok := result[k].(map[string]interface{}); ok {
			if srcMap, ok := v.(map[string]interface{}); ok {
				result[k] = mergeMaps(dstMap, srcMap)
				continue
			}
		}
		result[k] = v
	}

	return result
}

// GetEnv returns the environment variable value or defaultValue when unset.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetConfigEnv returns the configuration environment (CONFIG_ENV, default local).
func GetConfigEnv() string {
	return GetEnv("CONFIG_ENV", "local")
}
