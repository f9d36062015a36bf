package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdcombine/pkg/combine"
)

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(GlobalIgnoreEnv, "")

	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromDir(t *testing.T) {
	t.Setenv(GlobalIgnoreEnv, "")
	dir := t.TempDir()
	yml := "output: book.md\npattern: \"*.{md,markdown}\"\nworkers: 2\nignore:\n  - drafts/\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mdcombine.yml"), []byte(yml), 0o644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "book.md", cfg.Output)
	assert.Equal(t, "*.{md,markdown}", cfg.Pattern)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"drafts/"}, cfg.Ignore)
	assert.Equal(t, ".md", cfg.DefaultExt)
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0o644))

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)

	_, err = Load("", path+".missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_GlobalIgnoreFromEnv(t *testing.T) {
	t.Setenv(GlobalIgnoreEnv, "/etc/mdcombine/ignore")

	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "/etc/mdcombine/ignore", cfg.GlobalIgnore)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mdcombine.yaml"), []byte("workers: [1"), 0o644))
	_, err := Load(dir, "")
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Workers = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Pattern = "[md"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DefaultExt = "md"
	assert.Error(t, cfg.Validate())
}

func TestDefault_WorkersMatchCombiner(t *testing.T) {
	assert.Equal(t, combine.DefaultWorkers, Default().Workers)
}
