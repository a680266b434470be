package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, project string) {
	t.Helper()
	t.Setenv("MOCKUPS_DIR", project)
	t.Setenv("MOCKUPS_SITE_DIR", "")
	t.Setenv("MOCKUPS_WORKERS", "")
	t.Setenv("MOCKUPS_VERBOSE", "")
}

func TestLoad_RequiresProjectPath(t *testing.T) {
	setEnv(t, "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrProjectPathNotSet)
}

func TestLoad_Defaults(t *testing.T) {
	project := filepath.Join(t.TempDir(), "Sample App")
	require.NoError(t, os.Mkdir(project, 0755))
	setEnv(t, project)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, project, cfg.ProjectPath)
	assert.Equal(t, filepath.Join(project, "site"), cfg.SitePath())
	assert.Equal(t, filepath.Join(project, "site", "thumbs"), cfg.ThumbsPath())
	assert.Equal(t, "Sample App", cfg.ProjectName())
	assert.Equal(t, 0, cfg.Workers)
	assert.False(t, cfg.Verbose)
}

func TestLoad_Environment(t *testing.T) {
	project := t.TempDir()
	out := t.TempDir()
	setEnv(t, project)
	t.Setenv("MOCKUPS_SITE_DIR", out)
	t.Setenv("MOCKUPS_WORKERS", "3")
	t.Setenv("MOCKUPS_VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, out, cfg.SitePath())
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.Verbose)
}

func TestLoad_InvalidWorkers(t *testing.T) {
	tests := []struct {
		name    string
		workers string
	}{
		{name: "not a number", workers: "many"},
		{name: "negative", workers: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, t.TempDir())
			t.Setenv("MOCKUPS_WORKERS", tt.workers)

			_, err := Load()
			assert.ErrorIs(t, err, ErrInvalidWorkers)
		})
	}
}

func TestLoad_ProjectSettings(t *testing.T) {
	project := t.TempDir()
	settings := "name: Banking App\nsite_dir: public\nworkers: 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectFile), []byte(settings), 0644))
	setEnv(t, project)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Banking App", cfg.ProjectName())
	assert.Equal(t, filepath.Join(project, "public"), cfg.SitePath())
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoad_EnvironmentWinsOverSettings(t *testing.T) {
	project := t.TempDir()
	settings := "site_dir: public\nworkers: 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectFile), []byte(settings), 0644))
	setEnv(t, project)
	t.Setenv("MOCKUPS_WORKERS", "8")
	t.Setenv("MOCKUPS_SITE_DIR", "out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, filepath.Join(project, "out"), cfg.SitePath())
}

func TestLoadProjectSettings_Malformed(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectFile), []byte("workers: [1, 2"), 0644))

	_, err := LoadProjectSettings(project)
	assert.Error(t, err)
}

func TestLoadProjectSettings_Missing(t *testing.T) {
	settings, err := LoadProjectSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ProjectSettings{}, *settings)
}
