package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"mockups/pkg/config"
	"mockups/pkg/models"
)

// Service handles operations related to a mockups project
type Service struct {
	config     *config.Config
	builder    *Builder
	modelCache *cache.Cache
	mu         sync.RWMutex
}

// NewService creates a service for the given configuration
func NewService(cfg *config.Config) *Service {
	builder := NewBuilder(KnownCategories())
	builder.Verbose = cfg.Verbose

	return &Service{
		config:     cfg,
		builder:    builder,
		modelCache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Config returns the configuration the service was created with
func (s *Service) Config() *config.Config {
	return s.config
}

// Scan returns the scan of the project, reusing a cached one when present
func (s *Service) Scan() (*ScanResult, error) {
	root := s.config.ProjectPath

	s.mu.RLock()
	if cached, found := s.modelCache.Get(root); found {
		s.mu.RUnlock()
		if s.config.Verbose {
			log.Println("Using cached scan")
		}
		return cached.(*ScanResult), nil
	}
	s.mu.RUnlock()

	if s.config.Verbose {
		log.Printf("Scanning %s", root)
	}

	result, err := s.builder.Build(root)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.modelCache.Set(root, result, cache.DefaultExpiration)
	s.mu.Unlock()

	return result, nil
}

// Invalidate drops the cached scan so the next call rescans the project
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.modelCache.Flush()
	s.mu.Unlock()
}

// GetCategoriesInternal returns all categories with their sections
func (s *Service) GetCategoriesInternal() ([]models.Category, error) {
	result, err := s.Scan()
	if err != nil {
		return nil, err
	}
	return result.Categories, nil
}

// GetSectionInternal returns a section by its category slug and file name
func (s *Service) GetSectionInternal(categoryFile, sectionFile string) (models.Category, models.Section, error) {
	categories, err := s.GetCategoriesInternal()
	if err != nil {
		return models.Category{}, models.Section{}, err
	}

	for _, category := range categories {
		if category.File != categoryFile {
			continue
		}
		if section, ok := category.FindSection(sectionFile); ok {
			return category, section, nil
		}
		if section, ok := category.FindSection(SectionFile(sectionFile)); ok {
			return category, section, nil
		}
		return models.Category{}, models.Section{}, fmt.Errorf("section not found: %s/%s", categoryFile, sectionFile)
	}

	return models.Category{}, models.Section{}, fmt.Errorf("category not found: %s", categoryFile)
}

// GenerateThumbnails resizes every image of the project into the configured thumbs directory
func (s *Service) GenerateThumbnails(ctx context.Context, categories []models.Category, progressCb ProgressCallback) (*ThumbnailReport, error) {
	return GenerateThumbnails(ctx, s.config.ProjectPath, s.config.ThumbsPath(), categories, ThumbnailOptions{
		Workers:  s.config.Workers,
		Progress: progressCb,
	})
}

// ProjectInfo returns the values the site pages share
func (s *Service) ProjectInfo() models.Project {
	return models.Project{
		Name:       s.config.ProjectName(),
		IconExists: isFile(filepath.Join(s.config.ProjectPath, config.IconFile)),
	}
}
