package services

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/catalog"
	"github.com/yigit/rankpredictor/internal/pkg/apperrors"
)

// Resolution sources reported in FilterOptions.Source
const (
	SourceIndividual  = "individual"
	SourceSharedGroup = "shared-group"
	SourceTag         = "tag"
	SourceFallbackTag = "fallback-tag"
	SourceExam        = "exam"
)

// FilterConfigService resolves the legal filter values for a college and exam
type FilterConfigService interface {
	Resolve(collegeSlug, examType string) (*models.FilterOptions, error)
	AvailableExamTypes(collegeSlug string) []string
	ExamOptions(examType string) (*models.FilterOptions, error)
	Catalog() *catalog.Catalog
}

// resolverStrategy is one tier of the override chain. Strategies are tried
// in order and the first hit wins.
type resolverStrategy struct {
	name   string
	lookup func(cat *catalog.Catalog, slug, examType string) (catalog.ExamDefinition, string, bool)
}

// defaultStrategies is the precedence chain: individual config, shared
// group, slug-classified tag, then the individual config's fallback tag.
var defaultStrategies = []resolverStrategy{
	{name: SourceIndividual, lookup: lookupIndividual},
	{name: SourceSharedGroup, lookup: lookupSharedGroup},
	{name: SourceTag, lookup: lookupClassifiedTag},
	{name: SourceFallbackTag, lookup: lookupFallbackTag},
}

func lookupIndividual(cat *catalog.Catalog, slug, examType string) (catalog.ExamDefinition, string, bool) {
	cc, ok := cat.College(slug)
	if !ok {
		return catalog.ExamDefinition{}, "", false
	}
	d, ok := cc.ExamConfigs[examType]
	return d, SourceIndividual, ok
}

func lookupSharedGroup(cat *catalog.Catalog, slug, examType string) (catalog.ExamDefinition, string, bool) {
	name, d, ok := cat.GroupExam(slug, examType)
	if !ok {
		return catalog.ExamDefinition{}, "", false
	}
	return d, SourceSharedGroup + ":" + name, true
}

func lookupClassifiedTag(cat *catalog.Catalog, slug, examType string) (catalog.ExamDefinition, string, bool) {
	tag := catalog.ClassifySlug(slug)
	d, ok := cat.TagExam(tag, examType)
	return d, SourceTag + ":" + tag.String(), ok
}

func lookupFallbackTag(cat *catalog.Catalog, slug, examType string) (catalog.ExamDefinition, string, bool) {
	cc, ok := cat.College(slug)
	if !ok {
		return catalog.ExamDefinition{}, "", false
	}
	tag, ok := cc.Fallback()
	if !ok {
		return catalog.ExamDefinition{}, "", false
	}
	d, ok := cat.TagExam(tag, examType)
	return d, SourceFallbackTag + ":" + tag.String(), ok
}

// filterConfigServiceImpl implements the FilterConfigService interface
type filterConfigServiceImpl struct {
	catalog    *catalog.Catalog
	strategies []resolverStrategy
	logger     zerolog.Logger
}

// NewFilterConfigService creates a new resolver over an immutable catalog
func NewFilterConfigService(cat *catalog.Catalog, logger zerolog.Logger) FilterConfigService {
	return &filterConfigServiceImpl{
		catalog:    cat,
		strategies: defaultStrategies,
		logger:     logger.With().Str("component", "filter_resolver").Logger(),
	}
}

func (s *filterConfigServiceImpl) Catalog() *catalog.Catalog {
	return s.catalog
}

// Resolve walks the strategy chain for (collegeSlug, examType).
func (s *filterConfigServiceImpl) Resolve(collegeSlug, examType string) (*models.FilterOptions, error) {
	slug := strings.ToLower(strings.TrimSpace(collegeSlug))
	examType = strings.TrimSpace(examType)

	for _, strategy := range s.strategies {
		def, source, ok := strategy.lookup(s.catalog, slug, examType)
		if !ok {
			continue
		}
		s.logger.Debug().
			Str("slug", slug).
			Str("exam_type", examType).
			Str("strategy", strategy.name).
			Str("source", source).
			Msg("Filter configuration resolved")
		return s.normalize(slug, examType, source, def), nil
	}

	reason := "college_not_configured"
	if _, ok := s.catalog.Exam(examType); !ok {
		reason = "exam_not_defined"
	}
	s.logger.Info().
		Str("slug", slug).
		Str("exam_type", examType).
		Str("reason", reason).
		Msg("Filter configuration not available")

	return nil, apperrors.NewNotConfiguredError(slug, examType)
}

// ExamOptions returns the exam-level options used by the global predictor.
func (s *filterConfigServiceImpl) ExamOptions(examType string) (*models.FilterOptions, error) {
	examType = strings.TrimSpace(examType)
	def, ok := s.catalog.Exam(examType)
	if !ok {
		s.logger.Info().Str("exam_type", examType).Str("reason", "exam_not_defined").Msg("Filter configuration not available")
		return nil, apperrors.NewNotConfiguredError("", examType)
	}
	return s.normalize("", examType, SourceExam, def), nil
}

// AvailableExamTypes is the union of individually configured, group and tag
// derived exam types, in catalog exam order.
func (s *filterConfigServiceImpl) AvailableExamTypes(collegeSlug string) []string {
	slug := strings.ToLower(strings.TrimSpace(collegeSlug))
	present := make(map[string]bool)

	if cc, ok := s.catalog.College(slug); ok {
		for examType := range cc.ExamConfigs {
			present[examType] = true
		}
		if tag, ok := cc.Fallback(); ok {
			if tc, ok := s.catalog.Tag(tag); ok {
				for examType := range tc.ExamConfigs {
					present[examType] = true
				}
			}
		}
	}
	for _, examType := range s.catalog.GroupExamTypes(slug) {
		present[examType] = true
	}
	if tc, ok := s.catalog.Tag(catalog.ClassifySlug(slug)); ok {
		for examType := range tc.ExamConfigs {
			present[examType] = true
		}
	}

	out := make([]string, 0, len(present))
	for _, examType := range s.catalog.ExamTypes() {
		if present[examType] {
			out = append(out, examType)
		}
	}
	return out
}

func (s *filterConfigServiceImpl) normalize(slug, examType, source string, def catalog.ExamDefinition) *models.FilterOptions {
	opts := &models.FilterOptions{
		CollegeSlug:         slug,
		ExamType:            examType,
		Source:              source,
		Years:               def.Years,
		SubCategories:       def.SubCategories,
		QuotaOptions:        def.QuotaOptions,
		SeatTypeOptions:     def.SeatTypeOptions,
		RequiresSubCategory: def.RequiresSubCategory,
		RequiresQuota:       def.RequiresQuota,
	}

	if len(opts.Years) == 0 {
		opts.Years = s.catalog.DefaultYears()
	}
	if opts.RequiresSubCategory && len(opts.SubCategories) == 0 {
		opts.SubCategories = s.catalog.SubCategories()
	}
	// IIT seats are filled on the All-India quota only
	if slug != "" && catalog.ClassifySlug(slug) == catalog.TagIIT {
		opts.RequiresQuota = false
	}

	if opts.SubCategories == nil {
		opts.SubCategories = []string{}
	}
	if opts.QuotaOptions == nil {
		opts.QuotaOptions = []string{}
	}
	return opts
}
