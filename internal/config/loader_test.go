package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitstats/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gitstats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultRepositoryPath, cfg.Repository.Path)
	assert.Equal(t, config.BackendLibgit2, cfg.Repository.Backend)
	assert.Equal(t, config.DefaultReportFormat, cfg.Report.Format)
	assert.True(t, cfg.Report.Precompute)
	assert.Empty(t, cfg.Repository.Scope)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
repository:
  path: /srv/repo
  scope: lib
  backend: gogit
report:
  format: html
  output: stats.html
  precompute: false
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/repo", cfg.Repository.Path)
	assert.Equal(t, "lib", cfg.Repository.Scope)
	assert.Equal(t, config.BackendGoGit, cfg.Repository.Backend)
	assert.Equal(t, "html", cfg.Report.Format)
	assert.Equal(t, "stats.html", cfg.Report.Output)
	assert.False(t, cfg.Report.Precompute)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("GITSTATS_REPORT_FORMAT", "json")
	t.Setenv("GITSTATS_REPOSITORY_SCOPE", "subdir")

	cfg, err := config.LoadConfig(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, "subdir", cfg.Repository.Scope)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultReportFormat, cfg.Report.Format)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := config.Config{
		Repository: config.RepositoryConfig{Path: ".", Backend: config.BackendLibgit2},
		Report:     config.ReportConfig{Format: "text"},
	}
	require.NoError(t, valid.Validate())

	badBackend := valid
	badBackend.Repository.Backend = "svn"
	require.ErrorIs(t, badBackend.Validate(), config.ErrInvalidBackend)

	badFormat := valid
	badFormat.Report.Format = "xml"
	require.ErrorIs(t, badFormat.Validate(), config.ErrInvalidFormat)

	noPath := valid
	noPath.Repository.Path = ""
	require.ErrorIs(t, noPath.Validate(), config.ErrEmptyRepositoryPath)
}
