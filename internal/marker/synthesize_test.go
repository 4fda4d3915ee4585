package marker

import (
	"sort"
	"strings"
	"testing"

	"lkgen/internal/matrix"
)

func observe(c *matrix.Collection, platform matrix.Platform, py, pkg, version string) {
	c.Add(matrix.Job{Platform: platform, PyVersion: py, Variant: "main"}, pkg, version)
}

// ciMatrix models a run where 3.9 covers every platform while the other
// interpreter versions only run on ubuntu.
func ciMatrix() *matrix.Collection {
	c := matrix.NewCollection()
	observe(c, matrix.PlatformUbuntu, "3.8", "pad", "1.0")
	observe(c, matrix.PlatformUbuntu, "3.9", "pad", "1.0")
	observe(c, matrix.PlatformMacOS, "3.9", "pad", "1.0")
	observe(c, matrix.PlatformWindows, "3.9", "pad", "1.0")
	observe(c, matrix.PlatformUbuntu, "3.10", "pad", "1.0")
	observe(c, matrix.PlatformUbuntu, "3.11", "pad", "1.0")

	observe(c, matrix.PlatformUbuntu, "3.9", "foo", "1.0")
	observe(c, matrix.PlatformUbuntu, "3.10", "foo", "1.0")

	observe(c, matrix.PlatformMacOS, "3.9", "qux", "2.0")
	observe(c, matrix.PlatformWindows, "3.9", "qux", "2.0")
	return c
}

func TestSynthesize(t *testing.T) {
	lines, err := Synthesize(ciMatrix())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	got := make([]string, 0, len(lines))
	for _, line := range lines {
		got = append(got, line.String())
	}
	sort.Strings(got)

	want := []string{
		"foo==1.0; python_version=='3.10'",
		"foo==1.0; python_version=='3.9' and platform_system=='Linux'",
		"pad==1.0",
		"qux==2.0; python_version=='3.9' and ((platform_system=='Darwin' or platform_system=='Windows'))",
	}
	if len(got) != len(want) {
		t.Fatalf("Synthesize() produced %d lines, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// A package pinned on a strict subset of platforms across the whole version
// domain gets a bare platform marker, parenthesized but not wrapped again.
func TestSynthesizePlatformOnlyMarker(t *testing.T) {
	c := matrix.NewCollection()
	observe(c, matrix.PlatformUbuntu, "3.9", "pad", "0.1")
	observe(c, matrix.PlatformMacOS, "3.9", "pad", "0.1")
	observe(c, matrix.PlatformWindows, "3.9", "pad", "0.1")
	observe(c, matrix.PlatformMacOS, "3.9", "rho", "3.0")
	observe(c, matrix.PlatformUbuntu, "3.9", "rho", "3.0")

	lines, err := Synthesize(c)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	var rho string
	for _, line := range lines {
		if line.Name == "rho" {
			rho = line.String()
		}
	}
	want := "rho==3.0; (platform_system=='Darwin' or platform_system=='Linux')"
	if rho != want {
		t.Errorf("rho line = %q, want %q", rho, want)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	c := ciMatrix()

	first, err := Synthesize(c)
	if err != nil {
		t.Fatalf("first Synthesize() error = %v", err)
	}
	second, err := Synthesize(c)
	if err != nil {
		t.Fatalf("second Synthesize() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("line %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSynthesizeNonContiguousVersions(t *testing.T) {
	c := matrix.NewCollection()
	observe(c, matrix.PlatformUbuntu, "3.8", "pad", "1.0")
	observe(c, matrix.PlatformMacOS, "3.8", "pad", "1.0")
	observe(c, matrix.PlatformUbuntu, "3.9", "pad", "1.0")
	observe(c, matrix.PlatformUbuntu, "3.10", "pad", "1.0")
	observe(c, matrix.PlatformMacOS, "3.10", "pad", "1.0")

	// bad is ubuntu-only on 3.8 and 3.10 but absent from 3.9, so its
	// version group has a hole and no range expression describes it.
	observe(c, matrix.PlatformUbuntu, "3.8", "bad", "1.0")
	observe(c, matrix.PlatformUbuntu, "3.10", "bad", "1.0")

	_, err := Synthesize(c)
	if err == nil {
		t.Fatal("Synthesize() expected error for non-contiguous version group")
	}
	if !strings.Contains(err.Error(), "bad==1.0") {
		t.Errorf("error %q does not name the offending pin", err)
	}
}
