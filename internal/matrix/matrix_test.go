package matrix

import (
	"reflect"
	"testing"
)

func TestPlatformSystem(t *testing.T) {
	tests := []struct {
		platform Platform
		want     string
	}{
		{PlatformMacOS, "Darwin"},
		{PlatformUbuntu, "Linux"},
		{PlatformWindows, "Windows"},
	}
	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			if got := tt.platform.System(); got != tt.want {
				t.Errorf("System() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectionAdd(t *testing.T) {
	c := NewCollection()
	ubuntu39 := Job{Platform: PlatformUbuntu, PyVersion: "3.9", Variant: "main"}
	macos39 := Job{Platform: PlatformMacOS, PyVersion: "3.9", Variant: "main"}
	ubuntu310 := Job{Platform: PlatformUbuntu, PyVersion: "3.10", Variant: "main"}

	c.Add(ubuntu39, "numpy", "1.23.5")
	c.Add(macos39, "numpy", "1.23.5")
	c.Add(ubuntu310, "numpy", "1.24.0")
	c.Add(ubuntu39, "scipy", "1.10.0")

	if len(c.Jobs) != 3 {
		t.Errorf("got %d jobs, want 3", len(c.Jobs))
	}
	if !c.Jobs[ubuntu39] || !c.Jobs[macos39] || !c.Jobs[ubuntu310] {
		t.Error("Jobs set missing an added job")
	}
	if len(c.PyVersions) != 2 {
		t.Errorf("got %d python versions, want 2", len(c.PyVersions))
	}
	if !c.VersionPlatforms["3.9"][PlatformUbuntu] || !c.VersionPlatforms["3.9"][PlatformMacOS] {
		t.Error("VersionPlatforms[3.9] missing a platform")
	}
	if len(c.VersionPlatforms["3.10"]) != 1 {
		t.Errorf("got %d platforms for 3.10, want 1", len(c.VersionPlatforms["3.10"]))
	}
	if !c.Pins["numpy"]["1.23.5"][ubuntu39] || !c.Pins["numpy"]["1.23.5"][macos39] {
		t.Error("Pins missing numpy==1.23.5 observations")
	}
	if !c.Pins["numpy"]["1.24.0"][ubuntu310] {
		t.Error("Pins missing numpy==1.24.0 observation")
	}
	if len(c.Pins["scipy"]["1.10.0"]) != 1 {
		t.Errorf("got %d scipy observations, want 1", len(c.Pins["scipy"]["1.10.0"]))
	}
}

func TestSortedPyVersions(t *testing.T) {
	c := NewCollection()
	for _, py := range []string{"3.10", "3.8", "3.9", "3.11"} {
		c.Add(Job{Platform: PlatformUbuntu, PyVersion: py, Variant: "main"}, "numpy", "1.0")
	}
	want := []string{"3.8", "3.9", "3.10", "3.11"}
	if got := c.SortedPyVersions(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedPyVersions() = %v, want %v", got, want)
	}
}

func TestSortedPackages(t *testing.T) {
	c := NewCollection()
	job := Job{Platform: PlatformUbuntu, PyVersion: "3.9", Variant: "main"}
	for _, pkg := range []string{"scipy", "numpy", "pandas"} {
		c.Add(job, pkg, "1.0")
	}
	want := []string{"numpy", "pandas", "scipy"}
	if got := c.SortedPackages(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedPackages() = %v, want %v", got, want)
	}
}
