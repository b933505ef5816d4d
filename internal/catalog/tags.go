package catalog

import (
	"fmt"
	"strings"
)

// CollegeTag is an institutional category used to derive default filter
// configuration when a college has no override of its own.
type CollegeTag uint8

// Known tags. TagUnknown is the zero value and never has exam configs.
const (
	TagUnknown CollegeTag = iota
	TagIIT
	TagNIT
	TagIIIT
	TagGFTI
	TagAIIMS
	TagMedical
	TagUniversity
	TagPrivate
)

var tagNames = map[CollegeTag]string{
	TagUnknown:    "Unknown",
	TagIIT:        "IIT",
	TagNIT:        "NIT",
	TagIIIT:       "IIIT",
	TagGFTI:       "GFTI",
	TagAIIMS:      "AIIMS",
	TagMedical:    "Medical",
	TagUniversity: "University",
	TagPrivate:    "Private",
}

// AllTags lists every real tag in declaration order.
func AllTags() []CollegeTag {
	return []CollegeTag{TagIIT, TagNIT, TagIIIT, TagGFTI, TagAIIMS, TagMedical, TagUniversity, TagPrivate}
}

func (t CollegeTag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CollegeTag(%d)", uint8(t))
}

// MarshalText renders the tag by name in JSON and YAML output.
func (t CollegeTag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseCollegeTag matches a tag name case-insensitively. Anything else,
// including "Unknown", returns TagUnknown and false.
func ParseCollegeTag(s string) (CollegeTag, bool) {
	s = strings.TrimSpace(s)
	for _, tag := range AllTags() {
		if strings.EqualFold(tagNames[tag], s) {
			return tag, true
		}
	}
	return TagUnknown, false
}

// ClassifySlug derives a tag from a college slug. The rules are checked in
// order; slugs that match none are treated as universities.
func ClassifySlug(slug string) CollegeTag {
	s := strings.ToLower(strings.TrimSpace(slug))

	switch {
	case strings.HasPrefix(s, "iiit-"):
		return TagIIIT
	case strings.HasPrefix(s, "iit-"):
		return TagIIT
	case strings.HasPrefix(s, "nit-"):
		return TagNIT
	case strings.Contains(s, "aiims"):
		return TagAIIMS
	case strings.Contains(s, "medical"), strings.Contains(s, "mbbs"):
		return TagMedical
	default:
		return TagUniversity
	}
}
