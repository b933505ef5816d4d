// Package rounds defines the canonical ordering of counselling round labels.
// The prediction engine and every table that renders rounds as columns must
// order them through this package so the highlighted round always matches
// its column.
package rounds

import (
	"sort"
	"strconv"
	"strings"
)

// Known round labels in canonical order, after the numbered Round-N block.
const (
	CSAB1             = "CSAB-1"
	CSAB2             = "CSAB-2"
	UpgradationRound  = "Upgradation-Round"
	UpgradationRound2 = "Upgradation-Round-2"
	SpotRound         = "Spot-Round"
	SpecialSpotRound  = "Special-Spot-Round"
)

// trailing labels rank after every numbered round.
var trailing = []string{CSAB1, CSAB2, UpgradationRound, UpgradationRound2, SpotRound, SpecialSpotRound}

// position of a label in the canonical order.
type position struct {
	group int // 0 numbered, 1 trailing, 2 unknown
	index int
}

// normalize folds case and treats runs of spaces or underscores as hyphens,
// so "round 2" and "Round-2" compare equal.
func normalize(label string) string {
	fields := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(label)), func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	return strings.Join(fields, "-")
}

func locate(label string) position {
	n := normalize(label)

	if rest, ok := strings.CutPrefix(n, "round-"); ok {
		if num, err := strconv.Atoi(rest); err == nil && num > 0 {
			return position{group: 0, index: num}
		}
	}

	for i, t := range trailing {
		if n == normalize(t) {
			return position{group: 1, index: i}
		}
	}

	return position{group: 2}
}

// Canonical returns the canonical spelling of a known label, so "round 2"
// becomes "Round-2". Unknown labels are returned trimmed but otherwise as is.
func Canonical(label string) string {
	p := locate(label)
	switch p.group {
	case 0:
		return "Round-" + strconv.Itoa(p.index)
	case 1:
		return trailing[p.index]
	default:
		return strings.TrimSpace(label)
	}
}

// IsKnown reports whether the label is a numbered round or one of the named rounds.
func IsKnown(label string) bool {
	return locate(label).group < 2
}

// Compare returns -1 if a sorts before b, 1 if after and 0 if they are the
// same round. Unknown labels sort after all known ones, alphabetically.
func Compare(a, b string) int {
	pa, pb := locate(a), locate(b)

	if pa.group != pb.group {
		return cmpInt(pa.group, pb.group)
	}
	if pa.group < 2 {
		return cmpInt(pa.index, pb.index)
	}
	return strings.Compare(a, b)
}

// Less is Compare(a, b) < 0.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Sort orders labels in place. Different spellings of the same round keep
// a stable byte order.
func Sort(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		if c := Compare(labels[i], labels[j]); c != 0 {
			return c < 0
		}
		return labels[i] < labels[j]
	})
}

// Sorted returns an ordered copy of labels.
func Sorted(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	Sort(out)
	return out
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
