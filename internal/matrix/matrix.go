package matrix

import (
	"sort"

	"lkgen/internal/pyver"
)

// Platform is an operating system label as it appears in CI job names.
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformUbuntu  Platform = "ubuntu"
	PlatformWindows Platform = "windows"
)

// systemNames maps CI platform labels to the values platform_system takes
// in pip environment markers.
var systemNames = map[Platform]string{
	PlatformMacOS:   "Darwin",
	PlatformUbuntu:  "Linux",
	PlatformWindows: "Windows",
}

// System returns the platform_system marker value for p.
func (p Platform) System() string {
	return systemNames[p]
}

// Job identifies one CI job: the platform and Python version it ran under,
// plus a variant label that distinguishes parallel jobs of the same
// platform/version pair. Jobs compare structurally and serve as set members.
type Job struct {
	Platform  Platform
	PyVersion string
	Variant   string
}

// Collection aggregates every pin observed for one job kind (tests or
// notebooks). All four maps are populated together, line by line, as freeze
// snapshots are read.
type Collection struct {
	// Jobs is the set of every job observed.
	Jobs map[Job]bool

	// PyVersions is the set of every Python version observed. Sorted, it is
	// the domain that version-range inference works over.
	PyVersions map[string]bool

	// VersionPlatforms records which platforms appeared with each Python
	// version, defining what full platform coverage means for that version.
	VersionPlatforms map[string]map[Platform]bool

	// Pins maps package name -> pinned version -> the set of jobs that
	// observed that pin.
	Pins map[string]map[string]map[Job]bool
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		Jobs:             make(map[Job]bool),
		PyVersions:       make(map[string]bool),
		VersionPlatforms: make(map[string]map[Platform]bool),
		Pins:             make(map[string]map[string]map[Job]bool),
	}
}

// Add records that job pinned pkg to version.
func (c *Collection) Add(job Job, pkg, version string) {
	c.Jobs[job] = true
	c.PyVersions[job.PyVersion] = true

	platforms := c.VersionPlatforms[job.PyVersion]
	if platforms == nil {
		platforms = make(map[Platform]bool)
		c.VersionPlatforms[job.PyVersion] = platforms
	}
	platforms[job.Platform] = true

	byVersion := c.Pins[pkg]
	if byVersion == nil {
		byVersion = make(map[string]map[Job]bool)
		c.Pins[pkg] = byVersion
	}
	jobs := byVersion[version]
	if jobs == nil {
		jobs = make(map[Job]bool)
		byVersion[version] = jobs
	}
	jobs[job] = true
}

// SortedPyVersions returns every observed Python version in ascending
// version order.
func (c *Collection) SortedPyVersions() []string {
	versions := make([]string, 0, len(c.PyVersions))
	for v := range c.PyVersions {
		versions = append(versions, v)
	}
	pyver.Sort(versions)
	return versions
}

// SortedPackages returns every pinned package name in byte order.
func (c *Collection) SortedPackages() []string {
	pkgs := make([]string, 0, len(c.Pins))
	for pkg := range c.Pins {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}
