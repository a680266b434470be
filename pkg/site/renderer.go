package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/eknkc/pug"

	"mockups/pkg/config"
	"mockups/pkg/models"
)

const (
	// ThumbsDir is where the thumbnail tree lives inside the site directory
	ThumbsDir = "thumbs"

	indexFile = "index.html"
	iconFile  = "img/icon.png"
	logoFile  = "img/logo.svg"
)

//go:embed templates/page.pug
var pageTemplate string

//go:embed assets
var assets embed.FS

// Renderer writes the static HTML site for a model
type Renderer struct {
	sitePath    string
	projectPath string
	sourceHref  string
	template    *template.Template

	Verbose bool
}

// NewRenderer compiles the page template. Pages are written under sitePath
// and link full-size screenshots back to the category directories in projectPath.
func NewRenderer(sitePath, projectPath string) (*Renderer, error) {
	tmpl, err := pug.CompileString(pageTemplate, pug.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to compile page template: %w", err)
	}

	return &Renderer{
		sitePath:    sitePath,
		projectPath: projectPath,
		sourceHref:  sourceHref(sitePath, projectPath),
		template:    tmpl,
	}, nil
}

// SitePath returns the output directory
func (r *Renderer) SitePath() string {
	return r.sitePath
}

// Generate writes the site index, one index per category and one page per section
func (r *Renderer) Generate(project models.Project, categories []models.Category) error {
	if err := os.MkdirAll(r.sitePath, 0755); err != nil {
		return fmt.Errorf("failed to create site directory: %w", err)
	}

	if err := r.copyAssets(project); err != nil {
		return err
	}

	if err := r.writePage(indexFile, r.siteIndex(project, categories)); err != nil {
		return err
	}

	for _, category := range categories {
		if err := os.MkdirAll(filepath.Join(r.sitePath, category.File), 0755); err != nil {
			return fmt.Errorf("failed to create category directory: %w", err)
		}

		if err := r.writePage(path.Join(category.File, indexFile), r.categoryIndex(project, categories, category)); err != nil {
			return err
		}

		for _, section := range category.Sections {
			page := r.sectionPage(project, categories, category, section)
			if err := r.writePage(path.Join(category.File, section.File), page); err != nil {
				return err
			}
		}
	}

	return nil
}

// writePage renders into memory before the target file is touched
func (r *Renderer) writePage(name string, page view) error {
	var buf bytes.Buffer
	if err := r.template.Execute(&buf, page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	target := filepath.Join(r.sitePath, filepath.FromSlash(name))
	if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	if r.Verbose {
		log.Println("Generated page: " + target)
	}
	return nil
}

func (r *Renderer) copyAssets(project models.Project) error {
	err := fs.WalkDir(assets, "assets", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(name, "assets"), "/")
		target := filepath.Join(r.sitePath, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := assets.ReadFile(name)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		return fmt.Errorf("failed to copy assets: %w", err)
	}

	if !project.IconExists {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(r.projectPath, config.IconFile))
	if err != nil {
		return fmt.Errorf("failed to read icon: %w", err)
	}
	target := filepath.Join(r.sitePath, filepath.FromSlash(iconFile))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to copy icon: %w", err)
	}
	return nil
}

// sourceHref is the slash-separated path from the site root to the project root
func sourceHref(sitePath, projectPath string) string {
	rel, err := filepath.Rel(sitePath, projectPath)
	if err != nil {
		abs, absErr := filepath.Abs(projectPath)
		if absErr != nil {
			abs = projectPath
		}
		return "file://" + filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
