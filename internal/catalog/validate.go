package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// validate checks completeness of the whole registry. It returns every
// problem found, in a stable order.
func (c *Catalog) validate() []error {
	var errs []error

	if len(c.defaultYears) == 0 {
		errs = append(errs, fmt.Errorf("default_years: must not be empty"))
	}
	for _, y := range c.defaultYears {
		if !isYear(y) {
			errs = append(errs, fmt.Errorf("default_years: %q is not a four-digit year", y))
		}
	}
	if len(c.exams) == 0 {
		errs = append(errs, fmt.Errorf("exams: at least one exam must be defined"))
	}

	for _, examType := range sortedKeys(c.exams) {
		errs = append(errs, c.checkDefinition("exam "+examType, examType, c.exams[examType])...)
	}

	for _, tag := range AllTags() {
		tc, ok := c.tags[tag]
		if !ok {
			continue
		}
		for _, examType := range sortedKeys(tc.ExamConfigs) {
			errs = append(errs, c.checkDefinition(fmt.Sprintf("tag %s/%s", tag, examType), examType, tc.ExamConfigs[examType])...)
		}
	}

	for _, slug := range sortedKeys(c.colleges) {
		cc := c.colleges[slug]
		if cc.FallbackTag != "" {
			tag, ok := cc.Fallback()
			if !ok {
				errs = append(errs, fmt.Errorf("college %s: fallback_tag %q is not a known college tag", slug, cc.FallbackTag))
			} else if _, defined := c.tags[tag]; !defined {
				errs = append(errs, fmt.Errorf("college %s: fallback_tag %s has no tag config", slug, tag))
			}
		}
		if len(cc.ExamConfigs) == 0 && cc.FallbackTag == "" {
			errs = append(errs, fmt.Errorf("college %s: needs exam configs or a fallback_tag", slug))
		}
		for _, examType := range sortedKeys(cc.ExamConfigs) {
			errs = append(errs, c.checkDefinition(fmt.Sprintf("college %s/%s", slug, examType), examType, cc.ExamConfigs[examType])...)
		}
	}

	claimed := make(map[string]string)
	for i, g := range c.groups {
		where := fmt.Sprintf("group %q", g.Name)
		if g.Name == "" {
			where = fmt.Sprintf("group #%d", i+1)
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		}
		if len(g.CollegeSlugs) == 0 {
			errs = append(errs, fmt.Errorf("%s: college_slugs must not be empty", where))
		}
		for _, examType := range sortedKeys(g.ExamConfigs) {
			errs = append(errs, c.checkDefinition(where+"/"+examType, examType, g.ExamConfigs[examType])...)
			for _, slug := range g.CollegeSlugs {
				key := slug + "|" + examType
				if prev, dup := claimed[key]; dup {
					errs = append(errs, fmt.Errorf("%s: %s/%s already configured by group %q", where, slug, examType, prev))
					continue
				}
				claimed[key] = g.Name
			}
		}
	}

	return errs
}

func (c *Catalog) checkDefinition(where, examType string, d ExamDefinition) []error {
	var errs []error

	if _, ok := c.exams[examType]; !ok {
		errs = append(errs, fmt.Errorf("%s: exam type %q is not defined", where, examType))
	}
	if len(d.SeatTypeOptions) == 0 {
		errs = append(errs, fmt.Errorf("%s: seat_types must not be empty", where))
	}
	if d.RequiresSubCategory && len(d.SubCategories) == 0 && len(c.subCategories) == 0 {
		errs = append(errs, fmt.Errorf("%s: requires_sub_category without sub_categories", where))
	}
	if d.RequiresQuota && len(d.QuotaOptions) == 0 {
		errs = append(errs, fmt.Errorf("%s: requires_quota without quotas", where))
	}
	for _, y := range d.Years {
		if !isYear(y) {
			errs = append(errs, fmt.Errorf("%s: %q is not a four-digit year", where, y))
		}
	}
	return errs
}

// Summary counts what a catalog holds; used by the operator report.
type Summary struct {
	Exams         []string `json:"exams"`
	Tags          []string `json:"tags"`
	Colleges      int      `json:"colleges"`
	Groups        int      `json:"groups"`
	GroupedSlugs  int      `json:"groupedSlugs"`
	DefaultYears  []string `json:"defaultYears"`
	SubCategories []string `json:"subCategories"`
	States        int      `json:"states"`
}

// Summarize reports the shape of the catalog.
func (c *Catalog) Summarize() Summary {
	s := Summary{
		Exams:         c.ExamTypes(),
		Colleges:      len(c.colleges),
		Groups:        len(c.groups),
		DefaultYears:  c.DefaultYears(),
		SubCategories: c.SubCategories(),
		States:        len(c.states),
	}
	for _, tag := range AllTags() {
		if _, ok := c.tags[tag]; ok {
			s.Tags = append(s.Tags, tag.String())
		}
	}
	for _, g := range c.groups {
		s.GroupedSlugs += len(g.CollegeSlugs)
	}
	return s
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Problems flattens an error returned by New or Parse into one message per
// problem.
func Problems(err error) []string {
	if err == nil {
		return nil
	}
	for {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			var out []string
			for _, e := range joined.Unwrap() {
				out = append(out, Problems(e)...)
			}
			return out
		}
		next := errors.Unwrap(err)
		if next == nil {
			return []string{err.Error()}
		}
		if _, ok := next.(interface{ Unwrap() []error }); !ok {
			return []string{err.Error()}
		}
		err = next
	}
}
