package matrix

import (
	"sort"

	"lkgen/internal/pyver"
)

// environment is a (Python version, platform) pair. Pins conflict when the
// same environment recorded more than one version of a package; the variant
// label is deliberately not part of the key.
type environment struct {
	PyVersion string
	Platform  Platform
}

// Conflict reports that one environment pinned Package to several versions
// across variant jobs and that resolution kept the lowest.
type Conflict struct {
	Package   string
	PyVersion string
	Platform  Platform
	Versions  []string // every version observed, ascending
	Kept      string
}

// ResolveConflicts finds every (package, environment) pair pinned to more
// than one version, keeps the lowest version for that environment, and
// rebuilds the other versions' observation sets without it. Version entries
// whose sets become empty are dropped. After one pass each environment maps
// to exactly one version per package. Returned conflicts are ordered by
// package, Python version, then platform.
func (c *Collection) ResolveConflicts() []Conflict {
	var conflicts []Conflict
	for _, pkg := range c.SortedPackages() {
		byVersion := c.Pins[pkg]

		observed := make(map[environment]map[string]bool)
		for version, jobs := range byVersion {
			for job := range jobs {
				env := environment{PyVersion: job.PyVersion, Platform: job.Platform}
				if observed[env] == nil {
					observed[env] = make(map[string]bool)
				}
				observed[env][version] = true
			}
		}

		var conflicted []environment
		for env, versions := range observed {
			if len(versions) > 1 {
				conflicted = append(conflicted, env)
			}
		}
		sort.Slice(conflicted, func(i, j int) bool {
			a, b := conflicted[i], conflicted[j]
			if a.PyVersion != b.PyVersion {
				return pyver.Less(a.PyVersion, b.PyVersion)
			}
			return a.Platform < b.Platform
		})

		for _, env := range conflicted {
			versions := make([]string, 0, len(observed[env]))
			for v := range observed[env] {
				versions = append(versions, v)
			}
			pyver.Sort(versions)
			kept := versions[0]

			conflicts = append(conflicts, Conflict{
				Package:   pkg,
				PyVersion: env.PyVersion,
				Platform:  env.Platform,
				Versions:  versions,
				Kept:      kept,
			})

			for _, version := range versions[1:] {
				pruned := make(map[Job]bool, len(byVersion[version]))
				for job := range byVersion[version] {
					if job.PyVersion == env.PyVersion && job.Platform == env.Platform {
						continue
					}
					pruned[job] = true
				}
				if len(pruned) == 0 {
					delete(byVersion, version)
				} else {
					byVersion[version] = pruned
				}
			}
		}
	}
	return conflicts
}
