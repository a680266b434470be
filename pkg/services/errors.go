package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for package services.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Project root errors, reported before any scanning
	ErrProjectNotFound     = errors.New("project directory does not exist")
	ErrProjectNotDirectory = errors.New("project path is not a directory")

	// A file follows the naming convention but its number cannot be represented
	ErrNumberOverflow = errors.New("image number out of range")
)

// NumberOverflowError names the file whose ordering number is too large.
type NumberOverflowError struct {
	File   string
	Number string
}

func (e *NumberOverflowError) Error() string {
	return fmt.Sprintf("%s: number %s exceeds %d", e.File, e.Number, maxImageNumber)
}

func (e *NumberOverflowError) Unwrap() error {
	return ErrNumberOverflow
}

// DiagnosticKind classifies a recoverable problem.
type DiagnosticKind int

const (
	KindCategoryUnreadable DiagnosticKind = iota
	KindDirectoryUnreadable
	KindMissingSource
	KindDestination
	KindDecode
	KindEncode
	KindWrite
	KindCanceled
)

var kindNames = map[DiagnosticKind]string{
	KindCategoryUnreadable:  "category unreadable",
	KindDirectoryUnreadable: "directory unreadable",
	KindMissingSource:       "missing source",
	KindDestination:         "destination",
	KindDecode:              "decode",
	KindEncode:              "encode",
	KindWrite:               "write",
	KindCanceled:            "canceled",
}

func (k DiagnosticKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Diagnostic is a recoverable error tied to a path. It never aborts unrelated work.
type Diagnostic struct {
	Kind DiagnosticKind
	Path string
	Err  error
}

func (d Diagnostic) Error() string {
	if d.Err == nil {
		return fmt.Sprintf("%s: %s", d.Kind, d.Path)
	}
	return fmt.Sprintf("%s: %s: %v", d.Kind, d.Path, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics is the list returned alongside a successful result.
type Diagnostics []Diagnostic

// Count returns the number of diagnostics of the given kind.
func (ds Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Paths returns the paths of the diagnostics of the given kind, in order.
func (ds Diagnostics) Paths(kind DiagnosticKind) []string {
	var paths []string
	for _, d := range ds {
		if d.Kind == kind {
			paths = append(paths, d.Path)
		}
	}
	return paths
}

func (ds Diagnostics) Error() string {
	lines := make([]string, 0, len(ds))
	for _, d := range ds {
		lines = append(lines, d.Error())
	}
	return strings.Join(lines, "\n")
}
