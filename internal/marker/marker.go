// Package marker infers pip environment-marker expressions from matrix
// observations: for each pinned package version it derives the smallest
// platform_system / python_version predicate that selects exactly the jobs
// that pinned it.
package marker

import (
	"fmt"
	"sort"
	"strings"

	"lkgen/internal/matrix"
	"lkgen/internal/pyver"
)

// Constraint is one marker expression plus whether it must be wrapped in
// parentheses when joined to another constraint with "and". The zero
// Constraint means no restriction.
type Constraint struct {
	Expr       string
	NeedsParen bool
}

// IsZero reports whether c places no restriction.
func (c Constraint) IsZero() bool {
	return c == Constraint{}
}

func (c Constraint) render(inAnd bool) string {
	if c.NeedsParen && inAnd {
		return "(" + c.Expr + ")"
	}
	return c.Expr
}

// PlatformConstraint computes the platform_system predicate for one Python
// version: zero when every platform that ran that version is observed, a
// single equality for one platform, and otherwise a parenthesized "or" over
// the observed platforms in name order.
func PlatformConstraint(observed, all map[matrix.Platform]bool) Constraint {
	if len(observed) == len(all) {
		return Constraint{}
	}

	platforms := make([]matrix.Platform, 0, len(observed))
	for p := range observed {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

	terms := make([]string, len(platforms))
	for i, p := range platforms {
		terms[i] = fmt.Sprintf("platform_system=='%s'", p.System())
	}
	if len(terms) == 1 {
		return Constraint{Expr: terms[0]}
	}
	return Constraint{Expr: "(" + strings.Join(terms, " or ") + ")", NeedsParen: true}
}

// VersionRange computes the python_version predicate selecting exactly the
// given versions out of the full observed domain. The versions must occupy
// a contiguous run of the sorted domain; a gap means the upstream data is
// inconsistent and the whole run must abort rather than emit a wrong
// constraint.
//
// A run covering the whole domain needs no predicate; a run touching only
// the low or high end gets a single bound; a single interior version gets
// an equality; any other interior run gets both bounds.
func VersionRange(versions, domain []string) (Constraint, error) {
	if len(versions) == 0 {
		return Constraint{}, fmt.Errorf("empty python version group")
	}

	sorted := append([]string(nil), domain...)
	pyver.Sort(sorted)
	index := make(map[string]int, len(sorted))
	for i, v := range sorted {
		index[v] = i
	}

	indices := make([]int, 0, len(versions))
	for _, v := range versions {
		i, ok := index[v]
		if !ok {
			return Constraint{}, fmt.Errorf("python version %s outside observed domain %v", v, sorted)
		}
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for i := 1; i < len(indices); i++ {
		if indices[i] != indices[i-1]+1 {
			return Constraint{}, fmt.Errorf("python versions %v not contiguous within domain %v", versions, sorted)
		}
	}

	lo := pyver.Min(versions)
	hi := pyver.Max(versions)
	hasMin := indices[0] == 0
	hasMax := indices[len(indices)-1] == len(sorted)-1

	switch {
	case hasMin && hasMax:
		return Constraint{}, nil
	case hasMin:
		return Constraint{Expr: fmt.Sprintf("python_version<='%s'", hi)}, nil
	case hasMax:
		return Constraint{Expr: fmt.Sprintf("'%s'<=python_version", lo)}, nil
	case len(indices) == 1:
		return Constraint{Expr: fmt.Sprintf("python_version=='%s'", lo)}, nil
	default:
		return Constraint{
			Expr:       fmt.Sprintf("'%s'<=python_version and python_version<='%s'", lo, hi),
			NeedsParen: true,
		}, nil
	}
}

// Combine joins a python_version constraint and a platform constraint into
// the final marker text, "and" outermost, wrapping whichever sides ask for
// parentheses. An empty result means the pin applies unconditionally.
func Combine(versions, platforms Constraint) string {
	switch {
	case versions.IsZero() && platforms.IsZero():
		return ""
	case platforms.IsZero():
		return versions.Expr
	case versions.IsZero():
		return platforms.Expr
	default:
		return versions.render(true) + " and " + platforms.render(true)
	}
}
