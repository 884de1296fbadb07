package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"glm-4.6", "glm-4.6-long"}, cfg.Vision.TriggerModels)
	assert.Equal(t, "gemini-2.5-flash", cfg.Vision.SecondaryModel)
	assert.Equal(t, "google", cfg.Vision.Provider)
	assert.Equal(t, "opencode", cfg.Vision.Binary)
	assert.NotEmpty(t, cfg.Vision.Prompt)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	data := `vision:
  trigger_models:
    - local-coder
  secondary_model: qwen-vl-max
  provider: alibaba
logging:
  verbose: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(data), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"local-coder"}, cfg.Vision.TriggerModels)
	assert.Equal(t, "qwen-vl-max", cfg.Vision.SecondaryModel)
	assert.Equal(t, "alibaba", cfg.Vision.Provider)
	assert.True(t, cfg.Logging.Verbose)

	// Fields the file leaves empty keep their defaults.
	assert.Equal(t, DefaultBinary, cfg.Vision.Binary)
	assert.Equal(t, DefaultPrompt, cfg.Vision.Prompt)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("vision: ["), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	dir := t.TempDir()
	data := `vision:
  secondary_model: from-file
  provider: from-file
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(data), 0o644))

	t.Setenv("VISIONGATE_MODEL", "from-env")
	t.Setenv("VISIONGATE_PROVIDER", "from-env-provider")
	t.Setenv("VISIONGATE_BINARY", "custom-cli")
	t.Setenv("VISIONGATE_TRIGGER_MODELS", "model-a, model-b, ,model-c")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Vision.SecondaryModel)
	assert.Equal(t, "from-env-provider", cfg.Vision.Provider)
	assert.Equal(t, "custom-cli", cfg.Vision.Binary)
	assert.Equal(t, []string{"model-a", "model-b", "model-c"}, cfg.Vision.TriggerModels)
}

func TestEmptyEnvIgnored(t *testing.T) {
	t.Setenv("VISIONGATE_MODEL", "")
	t.Setenv("VISIONGATE_TRIGGER_MODELS", " , ,")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultSecondaryModel, cfg.Vision.SecondaryModel)
	assert.Equal(t, DefaultTriggerModels, cfg.Vision.TriggerModels)
}

func TestIsTriggerModel(t *testing.T) {
	v := &VisionConfig{TriggerModels: []string{"glm-4.6", "glm-4.6-long"}}

	tests := []struct {
		model string
		want  bool
	}{
		{"glm-4.6", true},
		{"glm-4.6-long", true},
		{"glm-4.5", false},
		{"GLM-4.6", false},
		{"gemini-2.5-flash", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.IsTriggerModel(tt.model), "model %q", tt.model)
	}
}
