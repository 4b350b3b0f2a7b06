package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "MONTEPI_"

// LoadConfig loads a run configuration from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
//
// The document is checked against the configuration schema before it is
// decoded, so unknown keys and out-of-range values are rejected early.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension.
func ParseConfig(data []byte, path string) (*Config, error) {
	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := ValidateDocument(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		doc, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
		if err := ValidateDocument(doc); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	return &config, nil
}

// yamlToJSON re-encodes a YAML document as JSON for schema validation.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return json.Marshal(doc)
}

// LoadEnv applies MONTEPI_* overrides to cfg.
//
// Values are read from dotenvPath (if not empty) and then from the process
// environment; the process environment wins, as with godotenv.Load.
func LoadEnv(cfg *Config, dotenvPath string) error {
	fileEnv := map[string]string{}
	if dotenvPath != "" {
		m, err := godotenv.Read(dotenvPath)
		if err != nil {
			return fmt.Errorf("failed to read env file: %w", err)
		}
		fileEnv = m
	}

	return applyEnv(cfg, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	})
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	errs := &ValidationErrors{}

	intVar := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs.Add(EnvPrefix+name, fmt.Sprintf("invalid integer %q", v))
				return
			}
			*dst = n
		}
	}

	if v, ok := lookup(EnvPrefix + "NAME"); ok && v != "" {
		cfg.Name = v
	}
	intVar("NUM_POINTS", &cfg.NumPoints)
	intVar("RADIUS", &cfg.Radius)
	intVar("WORKER_MULTIPLIER", &cfg.WorkerMultiplier)
	intVar("WORKERS", &cfg.Workers)
	intVar("GRAIN", &cfg.Grain)

	if v, ok := lookup(EnvPrefix + "SPIN_WAITS"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs.Add(EnvPrefix+"SPIN_WAITS", fmt.Sprintf("invalid integer %q", v))
		} else {
			cfg.SpinWaits = &n
		}
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs.Add(EnvPrefix+"SEED", fmt.Sprintf("invalid integer %q", v))
		} else {
			cfg.Seed = &n
		}
	}
	if v, ok := lookup(EnvPrefix + "GENERATOR"); ok && v != "" {
		cfg.Generator = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPrefix + "REMAINDER"); ok && v != "" {
		cfg.Remainder = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPrefix + "STRATEGIES"); ok && v != "" {
		cfg.Strategies = SplitList(v)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Marshal encodes cfg as YAML or JSON depending on the extension of path.
func Marshal(cfg *Config, path string) ([]byte, error) {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(cfg)
}
