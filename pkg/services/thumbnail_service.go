package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/nfnt/resize"

	"mockups/pkg/models"
	"mockups/pkg/workerpool"
)

// ProgressCallback receives the destination path of every finished thumbnail
// together with the number of units done so far and the number dispatched.
type ProgressCallback func(path string, done, total int)

// ThumbnailOptions tunes the thumbnail pipeline
type ThumbnailOptions struct {
	// Workers is the pool size, 0 means one worker per CPU
	Workers  int
	Progress ProgressCallback
}

// ThumbnailReport summarizes a pipeline run
type ThumbnailReport struct {
	Dispatched  int
	Written     int
	Bytes       int64
	Diagnostics Diagnostics
}

// Failed returns the number of images that did not get a thumbnail
func (r *ThumbnailReport) Failed() int {
	return len(r.Diagnostics)
}

// thumbnailJob is one resize-and-save unit
type thumbnailJob struct {
	src string
	dst string
}

// diagnosticSink collects per-unit failures reported from several workers
type diagnosticSink struct {
	mu    sync.Mutex
	items Diagnostics
}

func (s *diagnosticSink) add(d Diagnostic) {
	s.mu.Lock()
	s.items = append(s.items, d)
	s.mu.Unlock()
}

// GenerateThumbnails writes a half-width copy of every image in categories from
// projectRoot/<category>/<file> to destRoot/<category>/<file>. It returns once every
// dispatched unit has finished. Per-image failures end up in the report's diagnostics
// and never stop sibling work. A canceled ctx stops units that have not started yet.
func GenerateThumbnails(ctx context.Context, projectRoot, destRoot string, categories []models.Category, opts ThumbnailOptions) (*ThumbnailReport, error) {
	report := &ThumbnailReport{}
	sink := &diagnosticSink{}

	var jobs []thumbnailJob
	for _, category := range categories {
		srcDir := filepath.Join(projectRoot, category.File)
		dstDir := filepath.Join(destRoot, category.File)

		// Create the category directory before anything targeting it is dispatched
		if err := os.MkdirAll(dstDir, 0755); err != nil {
			for _, section := range category.Sections {
				for _, img := range section.Images {
					sink.add(Diagnostic{Kind: KindDestination, Path: filepath.Join(dstDir, img.File), Err: err})
				}
			}
			continue
		}

		for _, section := range category.Sections {
			for _, img := range section.Images {
				src := filepath.Join(srcDir, img.File)
				if _, err := os.Stat(src); err != nil {
					sink.add(Diagnostic{Kind: KindMissingSource, Path: src, Err: err})
					continue
				}
				jobs = append(jobs, thumbnailJob{src: src, dst: filepath.Join(dstDir, img.File)})
			}
		}
	}

	report.Dispatched = len(jobs)

	var written, done atomic.Int64
	var bytes atomic.Int64

	pool := workerpool.New(opts.Workers)
	for _, job := range jobs {
		pool.Submit(func() {
			defer func() {
				n := int(done.Add(1))
				if opts.Progress != nil {
					opts.Progress(job.dst, n, len(jobs))
				}
			}()

			defer func() {
				if r := recover(); r != nil {
					sink.add(Diagnostic{Kind: KindDecode, Path: job.src, Err: fmt.Errorf("thumbnail panicked: %v", r)})
				}
			}()

			if err := ctx.Err(); err != nil {
				sink.add(Diagnostic{Kind: KindCanceled, Path: job.src, Err: err})
				return
			}

			size, err := makeThumbnail(job.src, job.dst)
			if err != nil {
				sink.add(thumbnailDiagnostic(job, err))
				return
			}

			written.Add(1)
			bytes.Add(size)
		})
	}
	pool.Wait()

	report.Written = int(written.Load())
	report.Bytes = bytes.Load()
	report.Diagnostics = sink.items

	if len(report.Diagnostics) > 0 {
		log.Printf("Thumbnails: %d written, %d failed", report.Written, len(report.Diagnostics))
	}

	return report, ctx.Err()
}

// makeThumbnail is the per-unit operation, replaced in tests
var makeThumbnail = createThumbnail

// thumbnailError tags a unit failure with the stage it happened in
type thumbnailError struct {
	kind DiagnosticKind
	err  error
}

func (e *thumbnailError) Error() string { return e.err.Error() }
func (e *thumbnailError) Unwrap() error { return e.err }

func thumbnailDiagnostic(job thumbnailJob, err error) Diagnostic {
	var te *thumbnailError
	if errors.As(err, &te) {
		path := job.src
		if te.kind == KindWrite || te.kind == KindEncode {
			path = job.dst
		}
		return Diagnostic{Kind: te.kind, Path: path, Err: te.err}
	}
	return Diagnostic{Kind: KindWrite, Path: job.dst, Err: err}
}

// ThumbnailSize returns the thumbnail dimensions for a source image: half the
// width, truncated, and the height that keeps the aspect ratio, rounded.
func ThumbnailSize(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}

	newWidth := max(width/2, 1)
	newHeight := int(math.Round(float64(height) * float64(newWidth) / float64(width)))

	return newWidth, max(newHeight, 1)
}

// createThumbnail decodes src, resizes it with nearest-neighbour sampling and
// writes it to dst. dst is either written completely or left untouched.
func createThumbnail(src, dst string) (int64, error) {
	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, &thumbnailError{kind: KindMissingSource, err: err}
		}
		return 0, &thumbnailError{kind: KindDecode, err: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return 0, &thumbnailError{kind: KindDecode, err: fmt.Errorf("failed to decode image: %w", err)}
	}

	bounds := img.Bounds()
	width, height := ThumbnailSize(bounds.Dx(), bounds.Dy())
	if width == 0 {
		return 0, &thumbnailError{kind: KindDecode, err: fmt.Errorf("image has no pixels")}
	}

	resized := resize.Resize(uint(width), uint(height), img, resize.NearestNeighbor)

	return writePNGAtomic(dst, resized)
}

// writePNGAtomic encodes img into a temporary file next to dst and renames it into place.
func writePNGAtomic(dst string, img image.Image) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".thumb-*.png")
	if err != nil {
		return 0, &thumbnailError{kind: KindWrite, err: fmt.Errorf("failed to create temp file: %w", err)}
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: failed to remove temp file %s: %v", tmpPath, err)
		}
	}

	if err := png.Encode(tmp, img); err != nil {
		cleanup()
		return 0, &thumbnailError{kind: KindEncode, err: fmt.Errorf("failed to encode thumbnail: %w", err)}
	}

	info, err := tmp.Stat()
	if err != nil {
		cleanup()
		return 0, &thumbnailError{kind: KindWrite, err: err}
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return 0, &thumbnailError{kind: KindWrite, err: fmt.Errorf("failed to close temp file: %w", err)}
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		return 0, &thumbnailError{kind: KindWrite, err: fmt.Errorf("failed to move thumbnail into place: %w", err)}
	}

	return info.Size(), nil
}
