package services

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/taigrr/colorhash"

	"mockups/pkg/models"
)

// CategoryDef pairs a category directory with its display name.
type CategoryDef struct {
	File string
	Name string
}

// KnownCategories returns the closed set of device/orientation directories.
// Some of them may not be present in a project.
func KnownCategories() []CategoryDef {
	return []CategoryDef{
		{File: "iphone-portrait", Name: "iPhone Portrait"},
		{File: "iphone-landscape", Name: "iPhone Landscape"},
		{File: "ipad-portrait", Name: "iPad Portrait"},
		{File: "ipad-landscape", Name: "iPad Landscape"},
	}
}

// ScanResult is the outcome of a successful scan.
type ScanResult struct {
	Categories  []models.Category
	Ignored     []string
	Diagnostics Diagnostics
}

// ImageCount returns the number of images across all categories
func (r *ScanResult) ImageCount() int {
	total := 0
	for _, category := range r.Categories {
		total += category.ImageCount()
	}
	return total
}

// Builder reads a project directory into the category tree
type Builder struct {
	categories []CategoryDef
	Verbose    bool
}

// NewBuilder creates a builder for the given category table
func NewBuilder(categories []CategoryDef) *Builder {
	return &Builder{categories: categories}
}

// CheckProjectRoot verifies that the project root exists and is a directory.
func CheckProjectRoot(projectRoot string) error {
	info, err := os.Stat(projectRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", projectRoot, ErrProjectNotFound)
	}
	if err != nil {
		return fmt.Errorf("stat project %s: %w", projectRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", projectRoot, ErrProjectNotDirectory)
	}
	return nil
}

// Build scans every known category directory under projectRoot.
// Unreadable categories are omitted and reported in the diagnostics; a file whose
// number does not fit an image number fails the whole scan.
func (b *Builder) Build(projectRoot string) (*ScanResult, error) {
	if err := CheckProjectRoot(projectRoot); err != nil {
		return nil, err
	}

	result := &ScanResult{Categories: []models.Category{}}

	for _, def := range b.categories {
		categoryPath := filepath.Join(projectRoot, def.File)

		info, err := os.Stat(categoryPath)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Kind: KindCategoryUnreadable, Path: categoryPath, Err: err})
			continue
		}
		if !info.IsDir() {
			continue
		}

		category, err := b.readCategory(categoryPath, def, result)
		if errors.Is(err, ErrNumberOverflow) {
			return nil, err
		}
		if err != nil {
			log.Printf("Warning: skipping category %s: %v", def.File, err)
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Kind: KindCategoryUnreadable, Path: categoryPath, Err: err})
			continue
		}

		result.Categories = append(result.Categories, category)
	}

	sort.SliceStable(result.Categories, func(i, j int) bool {
		return result.Categories[i].Name < result.Categories[j].Name
	})

	return result, nil
}

// readCategory walks a category directory and groups its images into sections.
func (b *Builder) readCategory(categoryPath string, def CategoryDef, result *ScanResult) (models.Category, error) {
	category := models.Category{
		File:     def.File,
		Name:     def.Name,
		Sections: []models.Section{},
	}

	// Section file slug -> index in category.Sections, in first-encounter order
	index := make(map[string]int)
	var ignored []string
	var nested Diagnostics

	visitDirError := func(path string, err error) {
		nested = append(nested, Diagnostic{Kind: KindDirectoryUnreadable, Path: path, Err: err})
	}

	err := walkTree(categoryPath, make(map[string]bool), visitDirError, func(path string, d fs.DirEntry) error {
		name := d.Name()
		token, number, ok, err := MatchImageName(name)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if !ok {
			if b.Verbose {
				log.Printf("Ignoring %s: name does not follow the XY-[section]-N.png convention", path)
			}
			ignored = append(ignored, path)
			return nil
		}

		sectionFile := SectionFile(token)
		i, exists := index[sectionFile]
		if !exists {
			i = len(category.Sections)
			index[sectionFile] = i
			category.Sections = append(category.Sections, models.Section{
				File:   sectionFile,
				Name:   FormatName(token),
				Class:  token,
				Hue:    sectionHue(token),
				Images: []models.Image{},
			})
		}

		section := &category.Sections[i]
		section.Images = append(section.Images, models.Image{
			Category: def.File,
			File:     name,
			FileURL:  EscapeFileName(name),
			Number:   number,
		})
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}

	result.Ignored = append(result.Ignored, ignored...)
	result.Diagnostics = append(result.Diagnostics, nested...)

	sort.SliceStable(category.Sections, func(i, j int) bool {
		return category.Sections[i].Name < category.Sections[j].Name
	})
	for i := range category.Sections {
		images := category.Sections[i].Images
		sort.SliceStable(images, func(x, y int) bool {
			return images[x].Number < images[y].Number
		})
	}

	return category, nil
}

// walkTree walks root like filepath.WalkDir but also descends into symlinked
// directories, each real directory at most once. visitFile receives regular
// files, symlinks to files included. Unreadable directories below root go to
// visitDirError and are skipped; an unreadable root is returned.
func walkTree(root string, visited map[string]bool, visitDirError func(string, error), visitFile func(string, fs.DirEntry) error) error {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return err
	}
	if visited[resolved] {
		return nil
	}
	visited[resolved] = true

	// A trailing separator makes WalkDir follow a symlinked root
	walkRoot := root
	if resolved != root {
		walkRoot = root + string(filepath.Separator)
	}

	return filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return err
			}
			visitDirError(path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == walkRoot {
				return nil
			}
			key, err := filepath.EvalSymlinks(path)
			if err != nil {
				visitDirError(path, err)
				return filepath.SkipDir
			}
			if visited[key] {
				return filepath.SkipDir
			}
			visited[key] = true
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				// Dangling link
				return nil
			}
			if info.IsDir() {
				err := walkTree(path, visited, visitDirError, visitFile)
				if errors.Is(err, ErrNumberOverflow) {
					return err
				}
				if err != nil {
					visitDirError(path, err)
				}
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			return visitFile(path, d)
		}

		if !d.Type().IsRegular() {
			return nil
		}
		return visitFile(path, d)
	})
}

// sectionHue derives a stable colour wheel position from a section token.
func sectionHue(token string) int {
	h := colorhash.HashString(token) % 360
	if h < 0 {
		h += 360
	}
	return int(h)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
