// Package requirements renders and reads constrained requirements files:
// one "name==version" pin per line, optionally followed by "; marker".
package requirements

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Line is a single pinned requirement with an optional environment marker.
type Line struct {
	Name    string
	Version string
	Marker  string
}

// String renders the line in requirements-file form.
func (l Line) String() string {
	if l.Marker == "" {
		return l.Name + "==" + l.Version
	}
	return l.Name + "==" + l.Version + "; " + l.Marker
}

// Emitter writes constrained requirements files.
type Emitter struct {
	w io.Writer
}

// NewEmitter creates a new requirements emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit renders every line, sorts the rendered text in byte order, and
// writes the result joined by newlines, without a trailing newline. Lines
// from a conflict-free synthesis are already distinct, so nothing is
// deduplicated.
func (e *Emitter) Emit(lines []Line) error {
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = l.String()
	}
	sort.Strings(rendered)
	if _, err := io.WriteString(e.w, strings.Join(rendered, "\n")); err != nil {
		return err
	}
	return nil
}

// Parser reads constrained requirements files.
type Parser struct {
	r io.Reader
}

// NewParser creates a new requirements parser.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: r}
}

// Parse reads every pin from the file. Blank lines, comments, and lines
// without "==" are skipped; the marker, when present, is whatever follows
// the first ";".
func (p *Parser) Parse() ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(p.r)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		pin, marker, _ := strings.Cut(raw, ";")
		name, version, ok := strings.Cut(pin, "==")
		if !ok {
			continue
		}
		lines = append(lines, Line{
			Name:    strings.TrimSpace(name),
			Version: strings.TrimSpace(version),
			Marker:  strings.TrimSpace(marker),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading requirements: %w", err)
	}
	return lines, nil
}
