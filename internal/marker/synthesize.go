package marker

import (
	"fmt"
	"sort"

	"lkgen/internal/matrix"
	"lkgen/internal/pyver"
	"lkgen/internal/requirements"
)

// Synthesize derives one requirement line per (package, version,
// environment group) of a conflict-free collection.
//
// For each surviving package version the observations are grouped by Python
// version, each group gets a platform constraint judged against the full
// platform set of that Python version, Python versions sharing an identical
// platform constraint are merged into one version range, and the two
// predicates are combined. A version whose observations split into several
// platform-constraint groups yields several lines; the groups partition the
// Python versions, so the lines never overlap.
func Synthesize(collection *matrix.Collection) ([]requirements.Line, error) {
	domain := collection.SortedPyVersions()

	var lines []requirements.Line
	for _, pkg := range collection.SortedPackages() {
		byVersion := collection.Pins[pkg]

		versions := make([]string, 0, len(byVersion))
		for v := range byVersion {
			versions = append(versions, v)
		}
		pyver.Sort(versions)

		for _, version := range versions {
			jobs := byVersion[version]
			if len(jobs) == 0 {
				continue
			}

			observedPlatforms := make(map[string]map[matrix.Platform]bool)
			for job := range jobs {
				if observedPlatforms[job.PyVersion] == nil {
					observedPlatforms[job.PyVersion] = make(map[matrix.Platform]bool)
				}
				observedPlatforms[job.PyVersion][job.Platform] = true
			}

			groups := make(map[Constraint][]string)
			for py, platforms := range observedPlatforms {
				pc := PlatformConstraint(platforms, collection.VersionPlatforms[py])
				groups[pc] = append(groups[pc], py)
			}

			constraints := make([]Constraint, 0, len(groups))
			for pc := range groups {
				constraints = append(constraints, pc)
			}
			sort.Slice(constraints, func(i, j int) bool {
				return constraints[i].Expr < constraints[j].Expr
			})

			for _, pc := range constraints {
				vr, err := VersionRange(groups[pc], domain)
				if err != nil {
					return nil, fmt.Errorf("synthesizing %s==%s: %w", pkg, version, err)
				}
				lines = append(lines, requirements.Line{
					Name:    pkg,
					Version: version,
					Marker:  Combine(vr, pc),
				})
			}
		}
	}
	return lines, nil
}
