package pyver

import (
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Compare orders two version strings the way pip does for the common cases:
// numerically per dot-separated segment, so "3.10" sorts after "3.9" and
// "1.23.5" before "1.24.0". Strings that go-version cannot parse (exotic
// forms like "2.0.post1") fall back to byte order, which keeps the ordering
// total and deterministic. Callers must render the original strings; parsed
// forms are never exposed.
func Compare(a, b string) int {
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.Compare(vb)
}

// Less reports whether a orders strictly before b, breaking semantic ties
// ("1.0" vs "1.0.0") by byte order so sorts are reproducible.
func Less(a, b string) bool {
	if c := Compare(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

// Sort sorts versions in place into ascending order.
func Sort(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		return Less(versions[i], versions[j])
	})
}

// Min returns the lowest of versions, or "" if versions is empty.
func Min(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	min := versions[0]
	for _, v := range versions[1:] {
		if Less(v, min) {
			min = v
		}
	}
	return min
}

// Max returns the highest of versions, or "" if versions is empty.
func Max(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	max := versions[0]
	for _, v := range versions[1:] {
		if Less(max, v) {
			max = v
		}
	}
	return max
}
