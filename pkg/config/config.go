package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ProjectFile is the optional per-project settings file
	ProjectFile = "mockups.yaml"
	// IconFile is the optional app icon at the project root
	IconFile = "icon.png"

	defaultSiteDir   = "site"
	defaultThumbsDir = "thumbs"
)

// Config holds all configuration for the application
type Config struct {
	ProjectPath string
	SiteDir     string
	Name        string
	Workers     int
	Verbose     bool
}

// ProjectSettings is the content of mockups.yaml
type ProjectSettings struct {
	Name    string `yaml:"name"`
	SiteDir string `yaml:"site_dir"`
	Workers int    `yaml:"workers"`
}

// ErrProjectPathNotSet is returned when neither --dir nor MOCKUPS_DIR is given
var ErrProjectPathNotSet = errors.New("MOCKUPS_DIR environment variable not set")

// ErrInvalidWorkers is returned when the worker count is not a non-negative number
var ErrInvalidWorkers = errors.New("MOCKUPS_WORKERS must be a non-negative integer")

// Load loads configuration from environment variables, an optional .env file
// and the optional mockups.yaml in the project directory. Environment values win.
func Load() (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	projectPath := os.Getenv("MOCKUPS_DIR")
	if projectPath == "" {
		return nil, ErrProjectPathNotSet
	}
	projectPath = expandHome(projectPath)

	cfg := &Config{
		ProjectPath: filepath.Clean(projectPath),
		SiteDir:     os.Getenv("MOCKUPS_SITE_DIR"),
	}

	if workers := os.Getenv("MOCKUPS_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWorkers, workers)
		}
		cfg.Workers = n
	}

	if verbose := os.Getenv("MOCKUPS_VERBOSE"); verbose != "" {
		cfg.Verbose, _ = strconv.ParseBool(verbose)
	}

	settings, err := LoadProjectSettings(cfg.ProjectPath)
	if err != nil {
		return nil, err
	}
	cfg.merge(settings)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadProjectSettings reads mockups.yaml from the project directory.
// A missing file yields empty settings.
func LoadProjectSettings(projectPath string) (*ProjectSettings, error) {
	path := filepath.Join(projectPath, ProjectFile)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ProjectSettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var settings ProjectSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &settings, nil
}

// merge fills the values not set through the environment
func (c *Config) merge(settings *ProjectSettings) {
	if c.Name == "" {
		c.Name = settings.Name
	}
	if c.SiteDir == "" && settings.SiteDir != "" {
		c.SiteDir = settings.SiteDir
	}
	if c.Workers == 0 {
		c.Workers = settings.Workers
	}
}

// Validate checks if required configuration fields are set
func (c *Config) Validate() error {
	if c.ProjectPath == "" {
		return ErrProjectPathNotSet
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	return nil
}

// SitePath returns the directory the site is generated into
func (c *Config) SitePath() string {
	if c.SiteDir == "" {
		return filepath.Join(c.ProjectPath, defaultSiteDir)
	}
	if filepath.IsAbs(c.SiteDir) {
		return c.SiteDir
	}
	return filepath.Join(c.ProjectPath, c.SiteDir)
}

// ThumbsPath returns the root of the thumbnail tree
func (c *Config) ThumbsPath() string {
	return filepath.Join(c.SitePath(), defaultThumbsDir)
}

// ProjectName returns the display name, the project directory name by default
func (c *Config) ProjectName() string {
	if c.Name != "" {
		return c.Name
	}
	return filepath.Base(c.ProjectPath)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
