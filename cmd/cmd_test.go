package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockups/pkg/services"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 200, A: 255})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newProject(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"MOCKUPS_DIR", "MOCKUPS_SITE_DIR", "MOCKUPS_WORKERS", "MOCKUPS_VERBOSE"} {
		t.Setenv(key, "")
	}

	project := filepath.Join(t.TempDir(), "Shop App")
	writePNG(t, filepath.Join(project, "iphone-portrait", "XY-[cart]-0.png"), 20, 40)
	writePNG(t, filepath.Join(project, "iphone-portrait", "XY-[cart]-1.png"), 20, 40)
	writePNG(t, filepath.Join(project, "iphone-portrait", "XY-[checkout-flow]-0.png"), 20, 40)
	return project
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, args...)
	return out, err
}

func executeWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestBuild_WritesSiteAndThumbnails(t *testing.T) {
	project := newProject(t)

	out, err := execute(t, "build", "--dir", project, "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Scanned 1 categories, 2 sections, 3 screenshots")
	assert.Contains(t, out, "Thumbnails: 3 written")

	site := filepath.Join(project, "site")
	assert.FileExists(t, filepath.Join(site, "index.html"))
	assert.FileExists(t, filepath.Join(site, "iphone-portrait", "index.html"))
	assert.FileExists(t, filepath.Join(site, "iphone-portrait", "cart.html"))
	assert.FileExists(t, filepath.Join(site, "iphone-portrait", "checkout-flow.html"))
	assert.FileExists(t, filepath.Join(site, "thumbs", "iphone-portrait", "XY-[cart]-1.png"))
}

func TestBuild_IsTheDefaultCommand(t *testing.T) {
	project := newProject(t)

	_, err := execute(t, "-d", project)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(project, "site", "index.html"))
}

func TestBuild_SkipThumbs(t *testing.T) {
	project := newProject(t)

	out, err := execute(t, "build", "-d", project, "--skip-thumbs")
	require.NoError(t, err)

	assert.NotContains(t, out, "Thumbnails:")
	assert.FileExists(t, filepath.Join(project, "site", "index.html"))
	assert.NoDirExists(t, filepath.Join(project, "site", "thumbs"))
}

func TestBuild_SiteFlag(t *testing.T) {
	project := newProject(t)
	out := filepath.Join(t.TempDir(), "public")

	_, err := execute(t, "build", "-d", project, "-s", out)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "thumbs", "iphone-portrait", "XY-[cart]-0.png"))
	assert.NoDirExists(t, filepath.Join(project, "site"))
}

func TestBuild_PartialFailure(t *testing.T) {
	project := newProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(project, "iphone-portrait", "XY-[cart]-2.png"), []byte("broken"), 0644))

	out, err := execute(t, "build", "-d", project)
	require.NoError(t, err)
	assert.Contains(t, out, "3 written")
	assert.Contains(t, out, "1 failed")

	_, err = execute(t, "build", "-d", project, "--strict")
	assert.ErrorIs(t, err, ErrIncompleteBuild)
}

func TestBuild_RenderFailureDoesNotStopThumbnails(t *testing.T) {
	project := newProject(t)
	for i := 2; i < 24; i++ {
		writePNG(t, filepath.Join(project, "iphone-portrait", fmt.Sprintf("XY-[cart]-%d.png", i)), 20, 40)
	}
	// A file where the category pages should go
	require.NoError(t, os.MkdirAll(filepath.Join(project, "site"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "site", "iphone-portrait"), []byte("blocking"), 0644))

	out, errOut, err := executeWithStderr(t, "build", "-d", project, "--workers", "1")
	require.Error(t, err)

	assert.Contains(t, out, "Thumbnails: 24 written")
	assert.NotContains(t, errOut, "canceled")
	entries, err := os.ReadDir(filepath.Join(project, "site", "thumbs", "iphone-portrait"))
	require.NoError(t, err)
	assert.Len(t, entries, 24)
}

func TestGenerateThumbnails_ReportsSkippedCategory(t *testing.T) {
	project := newProject(t)
	loop := filepath.Join(project, "ipad-landscape")
	if err := os.Symlink("ipad-landscape", loop); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	out, errOut, err := executeWithStderr(t, "generate-thumbnails", "-d", project)
	require.NoError(t, err)

	assert.Contains(t, out, "Thumbnails: 3 of 3 written")
	assert.Contains(t, out, "1 skipped during scan")
	assert.Contains(t, errOut, "skipped category unreadable: "+loop)
	assert.FileExists(t, filepath.Join(project, "site", "thumbs", "iphone-portrait", "XY-[cart]-0.png"))
}

func TestBuild_ReportsSkippedCategory(t *testing.T) {
	project := newProject(t)
	loop := filepath.Join(project, "ipad-landscape")
	if err := os.Symlink("ipad-landscape", loop); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, errOut, err := executeWithStderr(t, "build", "-d", project)
	require.NoError(t, err)
	assert.Contains(t, errOut, "skipped category unreadable: "+loop)

	_, err = execute(t, "build", "-d", project, "--strict")
	assert.ErrorIs(t, err, ErrIncompleteBuild)
}

func TestBuild_MissingProject(t *testing.T) {
	newProject(t)

	_, err := execute(t, "build", "-d", filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, services.ErrProjectNotFound)
}

func TestExport_JSON(t *testing.T) {
	project := newProject(t)

	out, err := execute(t, "export", "-d", project)
	require.NoError(t, err)

	var doc exportDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Shop App", doc.Project.Name)
	require.Len(t, doc.Categories, 1)
	require.Len(t, doc.Categories[0].Sections, 2)
	assert.Equal(t, "cart.html", doc.Categories[0].Sections[0].File)
	assert.Equal(t, "XY-%5Bcart%5D-1.png", doc.Categories[0].Sections[0].Images[1].FileURL)
}

func TestExport_UnsupportedFormat(t *testing.T) {
	project := newProject(t)

	_, err := execute(t, "export", "yaml", "-d", project)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestListAndShow(t *testing.T) {
	project := newProject(t)

	out, err := execute(t, "list-categories", "-d", project)
	require.NoError(t, err)
	assert.Contains(t, out, "iPhone Portrait (iphone-portrait)")
	assert.Contains(t, out, "Total: 1 categories")

	out, err = execute(t, "list-sections", "-d", project)
	require.NoError(t, err)
	assert.Contains(t, out, "Checkout Flow (screenshots: 1)")
	assert.Contains(t, out, "Page: iphone-portrait/checkout-flow.html")
	assert.Contains(t, out, "Total: 2 sections across 1 categories")

	out, err = execute(t, "show-section", "iphone-portrait", "cart.html", "-d", project)
	require.NoError(t, err)
	assert.Contains(t, out, "Section: Cart")
	assert.Contains(t, out, "Screenshots: 2")
	assert.Contains(t, out, "2. XY-[cart]-1.png")

	_, err = execute(t, "show-section", "iphone-portrait", "login", "-d", project)
	assert.Error(t, err)
}
