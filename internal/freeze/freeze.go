// Package freeze reads the per-job pip freeze snapshots a CI matrix leaves
// behind and aggregates them into matrix collections, one for test jobs and
// one for notebook jobs.
package freeze

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"lkgen/internal/matrix"
)

// Kind distinguishes which output a snapshot feeds.
type Kind string

const (
	KindTests     Kind = "tests"
	KindNotebooks Kind = "notebooks"
)

// Snapshot filenames as written by the CI pipeline. Matching is anchored and
// case-sensitive; anything else in the directory is skipped. Notebook jobs
// run on a single platform, so their names carry no platform field and the
// variant label may itself contain hyphens.
var (
	testFileRe     = regexp.MustCompile(`^tests-(macos|ubuntu|windows)-latest-(3\.\d+)-([^-]+)-requirements\.txt$`)
	notebookFileRe = regexp.MustCompile(`^notebooks-(.*)-(3\.\d+)-requirements\.txt$`)
)

// Class is the result of classifying a snapshot filename.
type Class struct {
	Kind Kind
	Job  matrix.Job
}

// Classify parses a CI snapshot filename into the job that produced it.
// The second return is false for filenames that match neither pattern.
func Classify(filename string) (Class, bool) {
	if m := testFileRe.FindStringSubmatch(filename); m != nil {
		return Class{
			Kind: KindTests,
			Job: matrix.Job{
				Platform:  matrix.Platform(m[1]),
				PyVersion: m[2],
				Variant:   m[3],
			},
		}, true
	}
	if m := notebookFileRe.FindStringSubmatch(filename); m != nil {
		return Class{
			Kind: KindNotebooks,
			Job: matrix.Job{
				Platform:  matrix.PlatformUbuntu,
				PyVersion: m[2],
				Variant:   m[1],
			},
		}, true
	}
	return Class{}, false
}

// ParsePin splits one pip freeze line at its first "==". Lines without
// "==" report ok=false and are skipped by the scanner. Neither side is
// trimmed; freeze output carries no stray whitespace.
func ParsePin(line string) (name, version string, ok bool) {
	return strings.Cut(line, "==")
}

// nameSepRe collapses the separator runs PyPI treats as equivalent.
var nameSepRe = regexp.MustCompile(`[-_.]+`)

// CanonicalName normalizes a package name the way PyPI does, so exclusion
// rules match regardless of spelling: lowercased, runs of "-", "_" and "."
// collapsed to a single "-".
func CanonicalName(name string) string {
	return strings.ToLower(nameSepRe.ReplaceAllString(name, "-"))
}

// Scanner reads every snapshot in a directory into collections.
type Scanner struct {
	exclude map[string]bool
	logf    func(string, ...interface{})
}

// NewScanner creates a scanner that drops pins of the named packages.
func NewScanner(exclude []string, verbose bool) *Scanner {
	ex := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		ex[CanonicalName(name)] = true
	}
	return &Scanner{
		exclude: ex,
		logf: func(format string, args ...interface{}) {
			if verbose {
				fmt.Printf(format+"\n", args...)
			}
		},
	}
}

// ScanDir classifies every regular file in dir and aggregates the pins of
// matching snapshots into two collections, one per kind. Files that match
// neither filename pattern are skipped; an unreadable directory or file is
// an error.
func (s *Scanner) ScanDir(dir string) (tests, notebooks *matrix.Collection, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading requirements directory: %w", err)
	}

	tests = matrix.NewCollection()
	notebooks = matrix.NewCollection()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		class, ok := Classify(entry.Name())
		if !ok {
			s.logf("Skipping %s: not a snapshot name", entry.Name())
			continue
		}
		collection := tests
		if class.Kind == KindNotebooks {
			collection = notebooks
		}
		if err := s.scanFile(filepath.Join(dir, entry.Name()), class.Job, collection); err != nil {
			return nil, nil, err
		}
		s.logf("Collected %s (%s, %s, python %s)", entry.Name(), class.Kind, class.Job.Platform, class.Job.PyVersion)
	}

	return tests, notebooks, nil
}

func (s *Scanner) scanFile(path string, job matrix.Job, collection *matrix.Collection) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name, version, ok := ParsePin(scanner.Text())
		if !ok {
			continue
		}
		if s.exclude[CanonicalName(name)] {
			continue
		}
		collection.Add(job, name, version)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return nil
}
