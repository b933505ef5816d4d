package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/catalog"
	"github.com/yigit/rankpredictor/internal/pkg/apperrors"
	"github.com/yigit/rankpredictor/internal/pkg/helpers"
	"github.com/yigit/rankpredictor/internal/pkg/rounds"
)

// CutoffStore is the read side of the historical cutoff data
type CutoffStore interface {
	Query(ctx context.Context, criteria models.CutoffCriteria) ([]models.CutoffRow, error)
}

// PredictionService matches a rank against historical cutoffs
type PredictionService interface {
	Predict(ctx context.Context, req *models.PredictionRequest) (*models.ResultPage, error)
}

// predictionServiceImpl implements the PredictionService interface
type predictionServiceImpl struct {
	store       CutoffStore
	resolver    FilterConfigService
	scorer      *Scorer
	maxPageSize int
	logger      zerolog.Logger
}

// NewPredictionService creates a new prediction service instance
func NewPredictionService(store CutoffStore, resolver FilterConfigService, scorer *Scorer, maxPageSize int, logger zerolog.Logger) PredictionService {
	if maxPageSize <= 0 {
		maxPageSize = helpers.MaxPageSize
	}
	return &predictionServiceImpl{
		store:       store,
		resolver:    resolver,
		scorer:      scorer,
		maxPageSize: maxPageSize,
		logger:      logger.With().Str("component", "matching_engine").Logger(),
	}
}

// predictionScope is the validated, normalised view of a request
type predictionScope struct {
	req       models.PredictionRequest
	homeState string
	tags      map[catalog.CollegeTag]bool
	examOpts  *models.FilterOptions
	scoped    map[string]*models.FilterOptions

	// colleges whose history is bounded by the exam-level years
	examYearColleges []string
}

// candidateKey identifies one CandidateRecord
type candidateKey struct {
	slug, course, branch, seatType, subCategory, quota string
}

type candidate struct {
	college models.College
	record  models.CandidateRecord
}

// Predict validates the request, reads the cutoff history once and returns
// one page of scored candidates.
func (s *predictionServiceImpl) Predict(ctx context.Context, req *models.PredictionRequest) (*models.ResultPage, error) {
	scope, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	criteria := models.CutoffCriteria{
		ExamType:     scope.req.ExamType,
		SeatType:     scope.req.SeatType,
		SubCategory:  scope.req.SubCategory,
		Quota:        scope.req.Quota,
		CollegeSlugs: scope.req.CollegeSlugs,
	}
	rows, err := s.store.Query(ctx, criteria)
	if err != nil {
		s.logger.Error().Err(err).Str("exam_type", criteria.ExamType).Msg("Cutoff store query failed")
		return nil, apperrors.NewServiceUnavailableError(err)
	}

	var warning apperrors.DataQualityWarning
	candidates := s.group(scope, rows, &warning)

	results := make([]models.CandidateRecord, 0, len(candidates))
	for _, c := range candidates {
		if s.pickClosestRound(scope, c) {
			results = append(results, c.record)
		}
	}
	sortCandidates(results)

	page := &models.ResultPage{
		TotalResults:     len(results),
		TotalPages:       helpers.TotalPages(len(results), scope.req.PageSize),
		Page:             scope.req.Page,
		PageSize:         scope.req.PageSize,
		Mode:             scope.req.Mode,
		SkippedRecords:   warning.SkippedRecords,
		SkippedSamples:   warning.Samples,
		ExamYearColleges: scope.examYearColleges,
	}
	start, end := helpers.CalculateSliceIndices(scope.req.Page, scope.req.PageSize, len(results))
	page.Colleges = results[start:end]

	if !warning.Empty() {
		s.logger.Warn().
			Int("skipped_records", warning.SkippedRecords).
			Str("exam_type", scope.req.ExamType).
			Msg("Malformed cutoff records skipped")
	}
	s.logger.Debug().
		Int("rows", len(rows)).
		Int("candidates", len(candidates)).
		Int("results", len(results)).
		Str("mode", string(scope.req.Mode)).
		Msg("Prediction computed")

	return page, nil
}

func (s *predictionServiceImpl) validate(req *models.PredictionRequest) (*predictionScope, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request", "is required")
	}
	scope := &predictionScope{req: *req, tags: make(map[catalog.CollegeTag]bool)}
	r := &scope.req

	if r.Rank <= 0 {
		return nil, apperrors.NewValidationError("rank", "must be a positive integer")
	}
	if r.Page < 1 {
		return nil, apperrors.NewValidationError("page", "must be at least 1")
	}
	if r.PageSize < 1 || r.PageSize > s.maxPageSize {
		return nil, apperrors.Validationf("pageSize", "must be between 1 and %d", s.maxPageSize)
	}

	mode, ok := models.ParseMode(string(r.Mode))
	if !ok {
		return nil, apperrors.Validationf("mode", "must be %q or %q", models.ModeSafe, models.ModeRisk)
	}
	r.Mode = mode

	r.ExamType = strings.TrimSpace(r.ExamType)
	examOpts, err := s.resolver.ExamOptions(r.ExamType)
	if err != nil {
		return nil, apperrors.Validationf("examType", "unknown exam type %q", r.ExamType)
	}
	scope.examOpts = examOpts

	state, ok := s.resolver.Catalog().CanonicalState(r.HomeState)
	if !ok {
		return nil, apperrors.Validationf("homeState", "unknown state %q", r.HomeState)
	}
	scope.homeState = state
	r.HomeState = state

	for _, name := range r.Tags {
		tag, ok := catalog.ParseCollegeTag(name)
		if !ok {
			return nil, apperrors.Validationf("tag", "unknown college tag %q", name)
		}
		scope.tags[tag] = true
	}

	if r.MaxFees != nil && *r.MaxFees < 0 {
		return nil, apperrors.NewValidationError("maxFees", "must not be negative")
	}

	r.CollegeSlugs = normalizeSlugs(r.CollegeSlugs)
	targets := []*models.FilterOptions{examOpts}
	if len(r.CollegeSlugs) > 0 {
		scope.scoped = make(map[string]*models.FilterOptions, len(r.CollegeSlugs))
		targets = targets[:0]
		for _, slug := range r.CollegeSlugs {
			opts, err := s.resolver.Resolve(slug, r.ExamType)
			if err != nil {
				return nil, err
			}
			scope.scoped[slug] = opts
			targets = append(targets, opts)
		}
	}

	for _, opts := range targets {
		if err := checkFilters(r, opts); err != nil {
			return nil, err
		}
	}

	return scope, nil
}

// checkFilters validates seat type, sub-category and quota against one
// resolved option set.
func checkFilters(r *models.PredictionRequest, opts *models.FilterOptions) error {
	where := opts.ExamType
	if opts.CollegeSlug != "" {
		where = opts.CollegeSlug + "/" + opts.ExamType
	}

	if r.SeatType == "" {
		return apperrors.NewValidationError("seatType", "is required")
	}
	if !opts.AllowsSeatType(r.SeatType) {
		return apperrors.Validationf("seatType", "%q is not offered for %s", r.SeatType, where)
	}

	if r.SubCategory == "" && opts.RequiresSubCategory {
		return apperrors.Validationf("subCategory", "is required for %s", where)
	}
	if r.SubCategory != "" && !opts.AllowsSubCategory(r.SubCategory) {
		return apperrors.Validationf("subCategory", "%q is not offered for %s", r.SubCategory, where)
	}

	if r.Quota == "" && opts.RequiresQuota {
		return apperrors.Validationf("quota", "is required for %s", where)
	}
	if r.Quota != "" && !opts.AllowsQuota(r.Quota) {
		return apperrors.Validationf("quota", "%q is not offered for %s", r.Quota, where)
	}

	return nil
}

// group folds raw rows into candidates, applying eligibility, the optional
// filters and the year window. Malformed closing ranks are recorded in w.
func (s *predictionServiceImpl) group(scope *predictionScope, rows []models.CutoffRow, w *apperrors.DataQualityWarning) []*candidate {
	byKey := make(map[candidateKey]*candidate)
	var order []*candidate
	years := make(map[string]*models.FilterOptions)

	for _, row := range rows {
		slug := strings.ToLower(strings.TrimSpace(row.College.Slug))
		if row.ExamType != scope.req.ExamType || !s.eligible(scope, row) {
			continue
		}

		opts, ok := years[slug]
		if !ok {
			opts = s.yearWindow(scope, slug)
			years[slug] = opts
		}
		if !opts.HasYear(row.Year) {
			continue
		}

		closing, err := parseClosingRank(row.ClosingRank)
		if err != nil {
			sample := fmt.Sprintf("%s/%s/%s/%s: %q", slug, row.Branch, row.Year, row.Round, row.ClosingRank)
			w.Add(sample)
			s.logger.Warn().
				Str("slug", slug).
				Str("branch", row.Branch).
				Str("year", row.Year).
				Str("round", row.Round).
				Str("closing_rank", row.ClosingRank).
				Msg("Skipping malformed closing rank")
			continue
		}

		key := candidateKey{slug, row.Course, row.Branch, row.SeatType, row.SubCategory, row.Quota}
		c, ok := byKey[key]
		if !ok {
			c = newCandidate(slug, row)
			byKey[key] = c
			order = append(order, c)
		}

		byRound, ok := c.record.CutoffsByYear[row.Year]
		if !ok {
			byRound = make(map[string]int)
			c.record.CutoffsByYear[row.Year] = byRound
		}
		// Spellings of one round share a key; duplicates keep the widest closing rank
		round := rounds.Canonical(row.Round)
		if prev, dup := byRound[round]; !dup || closing > prev {
			byRound[round] = closing
		}
	}

	return order
}

func newCandidate(slug string, row models.CutoffRow) *candidate {
	tag := collegeTag(row.College)
	c := &candidate{
		college: row.College,
		record: models.CandidateRecord{
			CollegeSlug:   slug,
			CollegeName:   row.College.Name,
			State:         row.College.State,
			Tag:           tag.String(),
			Fees:          row.College.Fees,
			AvgSalary:     row.College.AvgSalary,
			Course:        row.Course,
			Branch:        row.Branch,
			ExamType:      row.ExamType,
			SeatType:      row.SeatType,
			SubCategory:   row.SubCategory,
			Quota:         row.Quota,
			CutoffsByYear: make(map[string]map[string]int),
			RoundOrder:    make(map[string][]string),
		},
	}
	c.record.SetNIRFRank(row.College)
	return c
}

// eligible applies home-state quota rules and the optional tag and fee filters.
func (s *predictionServiceImpl) eligible(scope *predictionScope, row models.CutoffRow) bool {
	sameState := strings.EqualFold(strings.TrimSpace(row.College.State), scope.homeState)
	switch strings.ToUpper(strings.TrimSpace(row.Quota)) {
	case "HS":
		if !sameState {
			return false
		}
	case "OS":
		if sameState {
			return false
		}
	}

	if len(scope.tags) > 0 && !scope.tags[collegeTag(row.College)] {
		return false
	}

	// A fee of zero means the fee is unknown
	if scope.req.MaxFees != nil && row.College.Fees > 0 && row.College.Fees > *scope.req.MaxFees {
		return false
	}

	return true
}

// yearWindow returns the resolved options whose years bound a college's
// history. Colleges without their own configuration use the exam-level years
// and are reported on the result page.
func (s *predictionServiceImpl) yearWindow(scope *predictionScope, slug string) *models.FilterOptions {
	if opts, ok := scope.scoped[slug]; ok {
		return opts
	}
	opts, err := s.resolver.Resolve(slug, scope.req.ExamType)
	if err == nil {
		return opts
	}

	reason := "college_not_configured"
	if !errors.Is(err, apperrors.ErrNotConfigured) {
		reason = "resolver_error"
		s.logger.Error().Err(err).Str("slug", slug).Msg("Unexpected resolver error")
	}
	s.logger.Debug().
		Str("slug", slug).
		Str("exam_type", scope.req.ExamType).
		Str("reason", reason).
		Strs("years", scope.examOpts.Years).
		Msg("Using exam-level years")
	scope.examYearColleges = append(scope.examYearColleges, slug)
	return scope.examOpts
}

// pickClosestRound selects the closest round of the latest year and scores
// the candidate. It reports false when the candidate should be dropped.
func (s *predictionServiceImpl) pickClosestRound(scope *predictionScope, c *candidate) bool {
	rec := &c.record
	if len(rec.CutoffsByYear) == 0 {
		return false
	}

	latest := ""
	for year, byRound := range rec.CutoffsByYear {
		rec.RoundOrder[year] = rounds.Sorted(keys(byRound))
		if year > latest {
			latest = year
		}
	}

	rank := scope.req.Rank
	byRound := rec.CutoffsByYear[latest]
	ordered := rec.RoundOrder[latest]

	var round string
	var stretch bool
	switch scope.req.Mode {
	case models.ModeRisk:
		round = riskRound(rank, ordered, byRound)
	default:
		round = safeRound(rank, ordered, byRound)
		if round == "" {
			if !s.scorer.StretchFallback() {
				return false
			}
			round = ordered[len(ordered)-1]
			stretch = true
		}
	}

	closing := byRound[round]
	rec.ClosestYear = latest
	rec.ClosestRound = round
	rec.ClosestClosingRank = closing
	rec.Stretch = stretch
	rec.Classification = models.ClassificationRisk
	if closing >= rank {
		rec.Classification = models.ClassificationSafe
	}
	rec.ScoreComponents = s.scorer.Score(rank, closing, c.college, rec.Branch)
	return true
}

// safeRound returns the admitting round with the smallest closing rank,
// preferring the canonically earliest on ties, or "" when none admits.
func safeRound(rank int, ordered []string, byRound map[string]int) string {
	best := ""
	for _, round := range ordered {
		closing := byRound[round]
		if closing < rank {
			continue
		}
		if best == "" || closing < byRound[best] {
			best = round
		}
	}
	return best
}

// riskRound returns the round nearest to rank. Ties prefer an admitting
// round, then canonical order.
func riskRound(rank int, ordered []string, byRound map[string]int) string {
	best := ""
	bestDist := 0
	for _, round := range ordered {
		closing := byRound[round]
		dist := abs(closing - rank)
		switch {
		case best == "":
		case dist < bestDist:
		case dist == bestDist && closing >= rank && byRound[best] < rank:
		default:
			continue
		}
		best, bestDist = round, dist
	}
	return best
}

// sortCandidates orders by final score, then NIRF (unranked last), then
// college name, then the remaining identity fields.
func sortCandidates(list []models.CandidateRecord) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := &list[i], &list[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if na, nb := a.NIRFRank(), b.NIRFRank(); na != nb {
			if na == 0 || nb == 0 {
				return nb == 0
			}
			return na < nb
		}
		for _, pair := range [][2]string{
			{a.CollegeName, b.CollegeName},
			{a.CollegeSlug, b.CollegeSlug},
			{a.Course, b.Course},
			{a.Branch, b.Branch},
			{a.SeatType, b.SeatType},
			{a.SubCategory, b.SubCategory},
			{a.Quota, b.Quota},
		} {
			if pair[0] != pair[1] {
				return pair[0] < pair[1]
			}
		}
		return false
	})
}

func parseClosingRank(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("closing rank %d is not positive", v)
	}
	return v, nil
}

func collegeTag(college models.College) catalog.CollegeTag {
	if tag, ok := catalog.ParseCollegeTag(college.Tag); ok {
		return tag
	}
	return catalog.ClassifySlug(college.Slug)
}

func normalizeSlugs(slugs []string) []string {
	if len(slugs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

func keys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
