// Package catalog holds the static registry of exams, college tags and
// per-college overrides that drives filter resolution. A Catalog is built
// once at startup and never mutated; every accessor hands out copies.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Exam types shipped with the default catalog.
const (
	ExamJEEMain     = "JEE-Main"
	ExamJEEAdvanced = "JEE-Advanced"
	ExamNEETUG      = "NEET-UG"
	ExamCUETUG      = "CUET-UG"
	ExamGATE        = "GATE"
	ExamBITSAT      = "BITSAT"
)

// ExamDefinition describes which filter values are legal for one exam,
// either at exam level or inside a tag, college or group override.
type ExamDefinition struct {
	DisplayName         string   `yaml:"display_name,omitempty" json:"displayName,omitempty"`
	RequiresSubCategory bool     `yaml:"requires_sub_category" json:"requiresSubCategory"`
	RequiresQuota       bool     `yaml:"requires_quota" json:"requiresQuota"`
	SeatTypeOptions     []string `yaml:"seat_types" json:"seatTypeOptions"`
	QuotaOptions        []string `yaml:"quotas,omitempty" json:"quotaOptions"`
	SubCategories       []string `yaml:"sub_categories,omitempty" json:"subCategories"`
	Years               []string `yaml:"years,omitempty" json:"years,omitempty"`
}

// Clone returns a deep copy.
func (d ExamDefinition) Clone() ExamDefinition {
	d.SeatTypeOptions = cloneStrings(d.SeatTypeOptions)
	d.QuotaOptions = cloneStrings(d.QuotaOptions)
	d.SubCategories = cloneStrings(d.SubCategories)
	d.Years = cloneStrings(d.Years)
	return d
}

// TagConfig is the default mapping for every college of one tag.
type TagConfig struct {
	Tag                   CollegeTag                `yaml:"-" json:"tag"`
	ExamConfigs           map[string]ExamDefinition `yaml:"exams" json:"examConfigs"`
	DefaultQuota          string                    `yaml:"default_quota,omitempty" json:"defaultQuota,omitempty"`
	IsGovernmentInstitute bool                      `yaml:"government" json:"isGovernmentInstitute"`
}

// CollegeConfig overrides the tag defaults for a single college slug.
type CollegeConfig struct {
	Slug        string                    `yaml:"-" json:"slug"`
	ExamConfigs map[string]ExamDefinition `yaml:"exams,omitempty" json:"examConfigs"`
	FallbackTag string                    `yaml:"fallback_tag,omitempty" json:"fallbackTag,omitempty"`
}

// Fallback parses FallbackTag.
func (c CollegeConfig) Fallback() (CollegeTag, bool) {
	if c.FallbackTag == "" {
		return TagUnknown, false
	}
	return ParseCollegeTag(c.FallbackTag)
}

// SharedGroup lets several colleges share one override.
type SharedGroup struct {
	Name         string                    `yaml:"name" json:"name"`
	CollegeSlugs []string                  `yaml:"college_slugs" json:"collegeSlugs"`
	ExamConfigs  map[string]ExamDefinition `yaml:"exams" json:"examConfigs"`
}

// Definition is the plain-data form of a catalog. It is what the YAML
// catalog file decodes into and what New consumes.
type Definition struct {
	DefaultYears  []string                  `yaml:"default_years,omitempty"`
	SubCategories []string                  `yaml:"sub_categories,omitempty"`
	States        []string                  `yaml:"states,omitempty"`
	ExamOrder     []string                  `yaml:"exam_order,omitempty"`
	Exams         map[string]ExamDefinition `yaml:"exams,omitempty"`
	Tags          map[string]TagConfig      `yaml:"tags,omitempty"`
	Colleges      map[string]CollegeConfig  `yaml:"colleges,omitempty"`
	Groups        []SharedGroup             `yaml:"groups,omitempty"`
}

// Catalog is the immutable registry.
type Catalog struct {
	defaultYears  []string
	subCategories []string
	states        map[string]string
	examOrder     []string
	exams         map[string]ExamDefinition
	tags          map[CollegeTag]TagConfig
	colleges      map[string]CollegeConfig
	groups        []SharedGroup
}

// New builds and validates a catalog from def. def is copied; later changes
// to it have no effect on the catalog.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		defaultYears:  cloneStrings(def.DefaultYears),
		subCategories: cloneStrings(def.SubCategories),
		states:        make(map[string]string, len(def.States)),
		exams:         make(map[string]ExamDefinition, len(def.Exams)),
		tags:          make(map[CollegeTag]TagConfig, len(def.Tags)),
		colleges:      make(map[string]CollegeConfig, len(def.Colleges)),
	}

	var errs []error

	for _, s := range def.States {
		c.states[strings.ToLower(strings.TrimSpace(s))] = s
	}

	for examType, exam := range def.Exams {
		c.exams[examType] = exam.Clone()
	}
	c.examOrder = buildExamOrder(def.ExamOrder, c.exams)

	for name, tc := range def.Tags {
		tag, ok := ParseCollegeTag(name)
		if !ok {
			errs = append(errs, fmt.Errorf("tag %q: not a known college tag", name))
			continue
		}
		tc.Tag = tag
		tc.ExamConfigs = cloneExamMap(tc.ExamConfigs)
		c.tags[tag] = tc
	}

	for slug, cc := range def.Colleges {
		key := normalizeSlug(slug)
		cc.Slug = key
		cc.ExamConfigs = cloneExamMap(cc.ExamConfigs)
		c.colleges[key] = cc
	}

	for _, g := range def.Groups {
		slugs := make([]string, len(g.CollegeSlugs))
		for i, s := range g.CollegeSlugs {
			slugs[i] = normalizeSlug(s)
		}
		c.groups = append(c.groups, SharedGroup{
			Name:         g.Name,
			CollegeSlugs: slugs,
			ExamConfigs:  cloneExamMap(g.ExamConfigs),
		})
	}

	errs = append(errs, c.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

// MustNew is New for static tables known to be valid.
func MustNew(def Definition) *Catalog {
	c, err := New(def)
	if err != nil {
		panic(err)
	}
	return c
}

// Exam returns the exam-level definition.
func (c *Catalog) Exam(examType string) (ExamDefinition, bool) {
	d, ok := c.exams[examType]
	if !ok {
		return ExamDefinition{}, false
	}
	return d.Clone(), true
}

// ExamTypes lists defined exams in catalog order.
func (c *Catalog) ExamTypes() []string {
	return cloneStrings(c.examOrder)
}

// TagExam returns the tag default for an exam.
func (c *Catalog) TagExam(tag CollegeTag, examType string) (ExamDefinition, bool) {
	tc, ok := c.tags[tag]
	if !ok {
		return ExamDefinition{}, false
	}
	d, ok := tc.ExamConfigs[examType]
	if !ok {
		return ExamDefinition{}, false
	}
	return d.Clone(), true
}

// Tag returns a tag's configuration.
func (c *Catalog) Tag(tag CollegeTag) (TagConfig, bool) {
	tc, ok := c.tags[tag]
	if !ok {
		return TagConfig{}, false
	}
	tc.ExamConfigs = cloneExamMap(tc.ExamConfigs)
	return tc, true
}

// College returns the individual override for a slug.
func (c *Catalog) College(slug string) (CollegeConfig, bool) {
	cc, ok := c.colleges[normalizeSlug(slug)]
	if !ok {
		return CollegeConfig{}, false
	}
	cc.ExamConfigs = cloneExamMap(cc.ExamConfigs)
	return cc, true
}

// GroupExam finds the shared group that lists slug and configures examType.
func (c *Catalog) GroupExam(slug, examType string) (string, ExamDefinition, bool) {
	key := normalizeSlug(slug)
	for _, g := range c.groups {
		d, ok := g.ExamConfigs[examType]
		if !ok || !containsString(g.CollegeSlugs, key) {
			continue
		}
		return g.Name, d.Clone(), true
	}
	return "", ExamDefinition{}, false
}

// GroupExamTypes lists the exam types configured for slug by any shared group.
func (c *Catalog) GroupExamTypes(slug string) []string {
	key := normalizeSlug(slug)
	var out []string
	for _, g := range c.groups {
		if !containsString(g.CollegeSlugs, key) {
			continue
		}
		for examType := range g.ExamConfigs {
			out = append(out, examType)
		}
	}
	return out
}

// DefaultYears is the year set used when a definition omits its own.
func (c *Catalog) DefaultYears() []string {
	return cloneStrings(c.defaultYears)
}

// SubCategories is the shared sub-category constant set.
func (c *Catalog) SubCategories() []string {
	return cloneStrings(c.subCategories)
}

// CanonicalState returns the catalog spelling of a state name.
func (c *Catalog) CanonicalState(state string) (string, bool) {
	s, ok := c.states[strings.ToLower(strings.TrimSpace(state))]
	return s, ok
}

// States lists the known states sorted by name.
func (c *Catalog) States() []string {
	out := make([]string, 0, len(c.states))
	for _, s := range c.states {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func buildExamOrder(order []string, exams map[string]ExamDefinition) []string {
	seen := make(map[string]bool, len(exams))
	out := make([]string, 0, len(exams))
	for _, examType := range order {
		if _, ok := exams[examType]; ok && !seen[examType] {
			out = append(out, examType)
			seen[examType] = true
		}
	}

	var rest []string
	for examType := range exams {
		if !seen[examType] {
			rest = append(rest, examType)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneExamMap(in map[string]ExamDefinition) map[string]ExamDefinition {
	out := make(map[string]ExamDefinition, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
