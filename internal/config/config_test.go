package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory so a developer's real global
// config cannot leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GROQ_API_KEY", "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)
	assert.Equal(t, "http://localhost:19530", cfg.MilvusAddr)
	assert.Equal(t, "cloudstack_docs", cfg.MilvusCollection)
	assert.Equal(t, 8, cfg.MaxContextChunks)
	assert.Equal(t, "generated", cfg.OutputDir)
	assert.True(t, cfg.TerraformValidation)
	assert.Equal(t, 60, cfg.ValidationTimeout)
	assert.Equal(t, 3, cfg.EmptyHintAfter)
	assert.True(t, cfg.ShowProgress)
}

func TestLoad_LocalConfigOverridesDefaults(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"groq_model": "llama-3.1-8b-instant",
		"output_dir": "out",
		"terraform_validation": false
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "llama-3.1-8b-instant", cfg.GroqModel)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.False(t, cfg.TerraformValidation)
	// Untouched keys keep their defaults.
	assert.Equal(t, "cloudstack_docs", cfg.MilvusCollection)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_context_chunks": 4}`), 0o644))

	t.Setenv("TERRAGEN_MAX_CONTEXT_CHUNKS", "16")
	t.Setenv("TERRAGEN_GROQ_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.MaxContextChunks)
	assert.Equal(t, "from-env", cfg.GroqAPIKey)
}

func TestLoad_GroqKeyFallback(t *testing.T) {
	isolate(t)
	t.Setenv("GROQ_API_KEY", "conventional")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "conventional", cfg.GroqAPIKey)
}

func TestLoad_ValidationRejectsBadValues(t *testing.T) {
	isolate(t)

	tests := map[string]struct {
		content string
	}{
		"zero retries":       {content: `{"max_retries": 0}`},
		"bad milvus addr":    {content: `{"milvus_addr": "not a url"}`},
		"empty model":        {content: `{"groq_model": ""}`},
		"oversized timeout":  {content: `{"validation_timeout": 100000}`},
		"chunk count too big": {content: `{"max_context_chunks": 1000}`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoad_ExpandsHomeInOutputDir(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"output_dir": "~/terraform-out"}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "terraform-out"), cfg.OutputDir)
}

func TestLoad_MissingLocalConfigIsFine(t *testing.T) {
	isolate(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, "generated", cfg.OutputDir)
}
