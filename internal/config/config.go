// Package config provides typed configuration for visiongate.
// Configuration is loaded from .visiongate.yaml in the workspace root,
// falling back to defaults, with VISIONGATE_* environment overrides
// applied last.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-workspace configuration file.
const ConfigFileName = ".visiongate.yaml"

// Defaults for the vision delegation pipeline.
const (
	// DefaultSecondaryModel is the vision-capable model used for image analysis.
	DefaultSecondaryModel = "gemini-2.5-flash"

	// DefaultProvider is the provider identifier passed to the analysis CLI.
	DefaultProvider = "google"

	// DefaultBinary is the external analysis program.
	DefaultBinary = "opencode"

	// DefaultPrompt is the fixed analysis instruction sent with every image.
	DefaultPrompt = "Describe this image in detail. Include any visible text, " +
		"UI elements, diagrams, charts, colors, and overall layout. " +
		"If the image contains code or terminal output, transcribe it exactly."
)

// DefaultTriggerModels lists the active-model identifiers that cannot read
// images natively and therefore trigger delegation: the primary coding model
// and its long-context variant.
var DefaultTriggerModels = []string{"glm-4.6", "glm-4.6-long"}

// Config is the root configuration.
type Config struct {
	Vision  VisionConfig  `yaml:"vision"`
	Logging LoggingConfig `yaml:"logging"`
}

// VisionConfig configures the image delegation pipeline.
type VisionConfig struct {
	// TriggerModels are the active-model identifiers for which image reads
	// are delegated. Any other model reads images directly.
	TriggerModels []string `yaml:"trigger_models"`

	// SecondaryModel is the vision-capable model used for analysis.
	SecondaryModel string `yaml:"secondary_model"`

	// Provider is the provider identifier for the secondary model.
	Provider string `yaml:"provider"`

	// Binary is the external analysis program spawned per delegation.
	Binary string `yaml:"binary"`

	// Prompt is the analysis instruction passed to the secondary model.
	Prompt string `yaml:"prompt"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		Vision: VisionConfig{
			TriggerModels:  append([]string(nil), DefaultTriggerModels...),
			SecondaryModel: DefaultSecondaryModel,
			Provider:       DefaultProvider,
			Binary:         DefaultBinary,
			Prompt:         DefaultPrompt,
		},
	}
}

// Load reads configuration from the workspace. A missing config file is not
// an error; defaults are used. Environment overrides are applied last.
func Load(workspace string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(workspace, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.applyDefaults()
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyDefaults fills fields the config file left empty.
func (c *Config) applyDefaults() {
	if len(c.Vision.TriggerModels) == 0 {
		c.Vision.TriggerModels = append([]string(nil), DefaultTriggerModels...)
	}
	if c.Vision.SecondaryModel == "" {
		c.Vision.SecondaryModel = DefaultSecondaryModel
	}
	if c.Vision.Provider == "" {
		c.Vision.Provider = DefaultProvider
	}
	if c.Vision.Binary == "" {
		c.Vision.Binary = DefaultBinary
	}
	if c.Vision.Prompt == "" {
		c.Vision.Prompt = DefaultPrompt
	}
}

// applyEnvOverrides applies VISIONGATE_* environment variables on top of the
// loaded configuration.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VISIONGATE_MODEL"); v != "" {
		c.Vision.SecondaryModel = v
	}
	if v := os.Getenv("VISIONGATE_PROVIDER"); v != "" {
		c.Vision.Provider = v
	}
	if v := os.Getenv("VISIONGATE_BINARY"); v != "" {
		c.Vision.Binary = v
	}
	if v := os.Getenv("VISIONGATE_TRIGGER_MODELS"); v != "" {
		var models []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
		if len(models) > 0 {
			c.Vision.TriggerModels = models
		}
	}
}

// IsTriggerModel reports whether the given active-model identifier requires
// image delegation.
func (v *VisionConfig) IsTriggerModel(modelID string) bool {
	for _, m := range v.TriggerModels {
		if m == modelID {
			return true
		}
	}
	return false
}
