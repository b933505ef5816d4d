package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/catalog"
	"github.com/yigit/rankpredictor/internal/config"
	"github.com/yigit/rankpredictor/internal/pkg/apperrors"
)

type stubStore struct {
	rows     []models.CutoffRow
	err      error
	calls    int
	criteria models.CutoffCriteria
	ctx      context.Context
}

func (s *stubStore) Query(ctx context.Context, criteria models.CutoffCriteria) ([]models.CutoffRow, error) {
	s.calls++
	s.ctx = ctx
	s.criteria = criteria
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

var testColleges = map[string]models.College{
	"dtu-delhi":      {Slug: "dtu-delhi", Name: "Delhi Technological University", State: "Delhi", Fees: 220000, AvgSalary: 1500000, NIRFRank: intPtr(27)},
	"nsut-delhi":     {Slug: "nsut-delhi", Name: "Netaji Subhas University of Technology", State: "Delhi", Fees: 0, AvgSalary: 1400000},
	"nit-trichy":     {Slug: "nit-trichy", Name: "NIT Tiruchirappalli", State: "Tamil Nadu", Fees: 150000, AvgSalary: 1300000, NIRFRank: intPtr(9)},
	"iiit-hyderabad": {Slug: "iiit-hyderabad", Name: "IIIT Hyderabad", State: "Telangana", Fees: 400000, AvgSalary: 3000000, NIRFRank: intPtr(47)},
}

func cutoff(slug, branch, year, round, closing string) models.CutoffRow {
	return models.CutoffRow{
		College:     testColleges[slug],
		ExamType:    catalog.ExamJEEMain,
		Course:      "B.Tech",
		Branch:      branch,
		SeatType:    "OPEN",
		SubCategory: "Gender-Neutral",
		Quota:       "AI",
		Year:        year,
		Round:       round,
		ClosingRank: closing,
	}
}

func withQuota(r models.CutoffRow, quota string) models.CutoffRow {
	r.Quota = quota
	return r
}

func newTestPredictor(t *testing.T, store CutoffStore, mutate ...func(*config.Scoring)) PredictionService {
	t.Helper()
	cfg := config.DefaultScoring()
	for _, m := range mutate {
		m(&cfg)
	}
	scorer, err := NewScorer(cfg)
	require.NoError(t, err)
	resolver := NewFilterConfigService(catalog.Default(), zerolog.New(io.Discard))
	return NewPredictionService(store, resolver, scorer, 100, zerolog.New(io.Discard))
}

func baseRequest() *models.PredictionRequest {
	return &models.PredictionRequest{
		Rank:        60001,
		ExamType:    catalog.ExamJEEMain,
		SeatType:    "OPEN",
		SubCategory: "Gender-Neutral",
		HomeState:   "Delhi",
		Mode:        models.ModeSafe,
		Page:        1,
		PageSize:    50,
	}
}

func TestPredictClosestRound(t *testing.T) {
	rows := []models.CutoffRow{
		cutoff("dtu-delhi", "Mechanical Engineering", "2025", "Round-3", "60500"),
		cutoff("dtu-delhi", "Mechanical Engineering", "2025", "Round-4", "59800"),
		cutoff("dtu-delhi", "Mechanical Engineering", "2024", "Round-6", "58000"),
	}

	tests := []struct {
		name        string
		rank        int
		mode        models.Mode
		wantRound   string
		wantClosing int
		wantClass   models.Classification
		wantStretch bool
	}{
		{"safe takes the only admitting round", 60001, models.ModeSafe, "Round-3", 60500, models.ClassificationSafe, false},
		{"safe takes the smallest admitting closing rank", 59000, models.ModeSafe, "Round-4", 59800, models.ClassificationSafe, false},
		{"risk takes the nearest round", 60001, models.ModeRisk, "Round-4", 59800, models.ClassificationRisk, false},
		{"safe falls back to the last round as a stretch", 70000, models.ModeSafe, "Round-4", 59800, models.ClassificationRisk, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPredictor(t, &stubStore{rows: rows})
			req := baseRequest()
			req.Rank = tt.rank
			req.Mode = tt.mode

			page, err := p.Predict(context.Background(), req)
			require.NoError(t, err)
			require.Len(t, page.Colleges, 1)

			got := page.Colleges[0]
			assert.Equal(t, "2025", got.ClosestYear)
			assert.Equal(t, tt.wantRound, got.ClosestRound)
			assert.Equal(t, tt.wantClosing, got.ClosestClosingRank)
			assert.Equal(t, tt.wantClass, got.Classification)
			assert.Equal(t, tt.wantStretch, got.Stretch)
			assert.Equal(t, []string{"Round-3", "Round-4"}, got.RoundOrder["2025"])
			assert.Equal(t, map[string]int{"Round-6": 58000}, got.CutoffsByYear["2024"])
		})
	}
}

func TestPredictSafeWithoutStretchDropsCandidate(t *testing.T) {
	store := &stubStore{rows: []models.CutoffRow{
		cutoff("dtu-delhi", "Civil Engineering", "2025", "Round-1", "40000"),
		cutoff("nit-trichy", "Civil Engineering", "2025", "Round-1", "80000"),
	}}
	p := newTestPredictor(t, store, func(s *config.Scoring) { s.StretchFallback = false })

	page, err := p.Predict(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Len(t, page.Colleges, 1)
	assert.Equal(t, "nit-trichy", page.Colleges[0].CollegeSlug)
	assert.Equal(t, 1, page.TotalResults)
}

func TestPredictRiskTiePrefersAdmittingRound(t *testing.T) {
	store := &stubStore{rows: []models.CutoffRow{
		cutoff("nit-trichy", "Civil Engineering", "2025", "Round-1", "900"),
		cutoff("nit-trichy", "Civil Engineering", "2025", "Round-2", "1100"),
	}}
	p := newTestPredictor(t, store)
	req := baseRequest()
	req.Rank = 1000
	req.Mode = models.ModeRisk

	page, err := p.Predict(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, page.Colleges, 1)
	assert.Equal(t, "Round-2", page.Colleges[0].ClosestRound)
	assert.Equal(t, models.ClassificationSafe, page.Colleges[0].Classification)
}

func TestPredictPageBeyondLastPage(t *testing.T) {
	var rows []models.CutoffRow
	for i := 0; i < 10; i++ {
		rows = append(rows, cutoff("nit-trichy", fmt.Sprintf("Branch %02d", i), "2025", "Round-1", "65000"))
	}
	p := newTestPredictor(t, &stubStore{rows: rows})
	req := baseRequest()
	req.Page = 99

	page, err := p.Predict(context.Background(), req)
	require.NoError(t, err)

	assert.NotNil(t, page.Colleges)
	assert.Empty(t, page.Colleges)
	assert.Equal(t, 10, page.TotalResults)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 99, page.Page)
}

func TestPredictEmptyResultIsNotAnError(t *testing.T) {
	p := newTestPredictor(t, &stubStore{})

	page, err := p.Predict(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Zero(t, page.TotalResults)
	assert.Zero(t, page.TotalPages)
	assert.Empty(t, page.Colleges)
}

func TestPredictValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *models.PredictionRequest)
		wantField string
	}{
		{"zero rank", func(r *models.PredictionRequest) { r.Rank = 0 }, "rank"},
		{"negative rank", func(r *models.PredictionRequest) { r.Rank = -4 }, "rank"},
		{"page zero", func(r *models.PredictionRequest) { r.Page = 0 }, "page"},
		{"page size too large", func(r *models.PredictionRequest) { r.PageSize = 101 }, "pageSize"},
		{"page size zero", func(r *models.PredictionRequest) { r.PageSize = 0 }, "pageSize"},
		{"unknown mode", func(r *models.PredictionRequest) { r.Mode = "yolo" }, "mode"},
		{"unknown exam", func(r *models.PredictionRequest) { r.ExamType = "SAT" }, "examType"},
		{"unknown seat type", func(r *models.PredictionRequest) { r.SeatType = "VIP" }, "seatType"},
		{"missing seat type", func(r *models.PredictionRequest) { r.SeatType = "" }, "seatType"},
		{"missing required sub-category", func(r *models.PredictionRequest) { r.SubCategory = "" }, "subCategory"},
		{"unknown sub-category", func(r *models.PredictionRequest) { r.SubCategory = "Male-only" }, "subCategory"},
		{"unknown quota", func(r *models.PredictionRequest) { r.Quota = "ZZ" }, "quota"},
		{"unknown home state", func(r *models.PredictionRequest) { r.HomeState = "Atlantis" }, "homeState"},
		{"unknown tag", func(r *models.PredictionRequest) { r.Tags = []string{"IITT"} }, "tag"},
		{"negative max fees", func(r *models.PredictionRequest) { v := int64(-1); r.MaxFees = &v }, "maxFees"},
		{"scoped college missing required quota", func(r *models.PredictionRequest) { r.CollegeSlugs = []string{"dtu-delhi"} }, "quota"},
		{"scoped college seat type not offered", func(r *models.PredictionRequest) {
			r.CollegeSlugs = []string{"iiit-hyderabad"}
			r.SeatType = "EWS"
		}, "seatType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{}
			p := newTestPredictor(t, store)
			req := baseRequest()
			tt.mutate(req)

			_, err := p.Predict(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

			var ve *apperrors.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Zero(t, store.calls, "store must not be queried for invalid requests")
		})
	}
}

func TestPredictScopedCollegeNotConfigured(t *testing.T) {
	store := &stubStore{}
	p := newTestPredictor(t, store)
	req := baseRequest()
	req.CollegeSlugs = []string{"iit-delhi"}

	_, err := p.Predict(context.Background(), req)
	assert.True(t, errors.Is(err, apperrors.ErrNotConfigured))
	assert.Zero(t, store.calls)
}

func TestPredictScopedCollegePassesCriteria(t *testing.T) {
	store := &stubStore{}
	p := newTestPredictor(t, store)
	req := baseRequest()
	req.CollegeSlugs = []string{" DTU-Delhi ", "nsut-delhi", "dtu-delhi"}
	req.Quota = "Delhi Region"
	req.HomeState = "delhi"

	_, err := p.Predict(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.CutoffCriteria{
		ExamType:     catalog.ExamJEEMain,
		SeatType:     "OPEN",
		SubCategory:  "Gender-Neutral",
		Quota:        "Delhi Region",
		CollegeSlugs: []string{"dtu-delhi", "nsut-delhi"},
	}, store.criteria)
}

type ctxKey struct{}

func TestPredictStoreFailure(t *testing.T) {
	cause := errors.New("connection refused")
	store := &stubStore{err: cause}
	p := newTestPredictor(t, store)
	ctx := context.WithValue(context.Background(), ctxKey{}, "request-1")

	_, err := p.Predict(ctx, baseRequest())
	require.Error(t, err)

	assert.True(t, errors.Is(err, apperrors.ErrServiceUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, 1, store.calls, "store failures are not retried")
	assert.Equal(t, "request-1", store.ctx.Value(ctxKey{}))
}

func TestPredictSkipsMalformedClosingRanks(t *testing.T) {
	store := &stubStore{rows: []models.CutoffRow{
		cutoff("nit-trichy", "Civil Engineering", "2025", "Round-1", "61000"),
		cutoff("nit-trichy", "Civil Engineering", "2025", "Round-2", "N/A"),
		cutoff("nit-trichy", "Civil Engineering", "2025", "Round-3", "-5"),
		cutoff("nit-trichy", "Chemical Engineering", "2025", "Round-1", ""),
	}}
	p := newTestPredictor(t, store)

	page, err := p.Predict(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, 3, page.SkippedRecords)
	assert.Len(t, page.SkippedSamples, 3)
	assert.True(t, page.PartialData())
	require.Len(t, page.Colleges, 1)
	assert.Equal(t, map[string]int{"Round-1": 61000}, page.Colleges[0].CutoffsByYear["2025"])
}

func TestPredictYearWindow(t *testing.T) {
	store := &stubStore{rows: []models.CutoffRow{
		cutoff("dtu-delhi", "Civil Engineering", "2023", "Round-1", "61000"),
		cutoff("nit-trichy", "Civil Engineering", "2023", "Round-1", "61000"),
		cutoff("nit-trichy", "Civil Engineering", "2019", "Round-1", "61000"),
	}}
	p := newTestPredictor(t, store)

	page, err := p.Predict(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Len(t, page.Colleges, 1, "dtu-delhi only publishes 2025 and 2024")
	got := page.Colleges[0]
	assert.Equal(t, "nit-trichy", got.CollegeSlug)
	assert.Equal(t, []string{"2023"}, mapKeys(got.CutoffsByYear))
}

func TestPredictHomeStateQuotaEligibility(t *testing.T) {
	store := &stubStore{rows: []models.CutoffRow{
		withQuota(cutoff("nit-trichy", "Civil Engineering", "2025", "Round-1", "61000"), "HS"),
		withQuota(cutoff("nit-trichy", "Civil Engineering", "2025", "Round-1", "62000"), "OS"),
	}}

	tests := []struct {
		homeState string
		wantQuota string
	}{
		{"Delhi", "OS"},
		{"Tamil Nadu", "HS"},
	}

	for _, tt := range tests {
		t.Run(tt.homeState, func(t *testing.T) {
			p := newTestPredictor(t, store)
			req := baseRequest()
			req.HomeState = tt.homeState

			page, err := p.Predict(context.Background(), req)
			require.NoError(t, err)
			require.Len(t, page.Colleges, 1)
			assert.Equal(t, tt.wantQuota, page.Colleges[0].Quota)
		})
	}
}

func TestPredictOptionalFilters(t *testing.T) {
	store := &stubStore{rows: []models.CutoffRow{
		cutoff("dtu-delhi", "Civil Engineering", "2025", "Round-1", "61000"),
		cutoff("nsut-delhi", "Civil Engineering", "2025", "Round-1", "61000"),
		cutoff("nit-trichy", "Civil Engineering", "2025", "Round-1", "61000"),
		cutoff("iiit-hyderabad", "Civil Engineering", "2025", "Round-1", "61000"),
	}}

	maxFees := int64(200000)
	tests := []struct {
		name   string
		mutate func(r *models.PredictionRequest)
		want   []string
	}{
		{"tag", func(r *models.PredictionRequest) { r.Tags = []string{"nit", "IIIT"} }, []string{"iiit-hyderabad", "nit-trichy"}},
		{"max fees keeps unknown fees", func(r *models.PredictionRequest) { r.MaxFees = &maxFees }, []string{"nit-trichy", "nsut-delhi"}},
		{"tag and max fees", func(r *models.PredictionRequest) {
			r.Tags = []string{"University"}
			r.MaxFees = &maxFees
		}, []string{"nsut-delhi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPredictor(t, store)
			req := baseRequest()
			req.PageSize = 100
			tt.mutate(req)

			page, err := p.Predict(context.Background(), req)
			require.NoError(t, err)

			var got []string
			for _, c := range page.Colleges {
				got = append(got, c.CollegeSlug)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestPredictSortOrder(t *testing.T) {
	twin := func(slug, name string, nirf *int) models.CutoffRow {
		r := cutoff("nit-trichy", "Civil Engineering", "2025", "Round-1", "61000")
		r.College = models.College{Slug: slug, Name: name, State: "Kerala", NIRFRank: nirf, AvgSalary: 1000000}
		return r
	}
	store := &stubStore{rows: []models.CutoffRow{
		twin("nit-b", "Beta", nil),
		twin("nit-c", "Gamma", intPtr(30)),
		twin("nit-a", "Alpha", intPtr(30)),
		twin("nit-d", "Delta", intPtr(500)),
		cutoff("nit-trichy", "Computer Science and Engineering", "2025", "Round-1", "60001"),
	}}
	p := newTestPredictor(t, store)

	page, err := p.Predict(context.Background(), baseRequest())
	require.NoError(t, err)

	var got []string
	for _, c := range page.Colleges {
		got = append(got, c.CollegeSlug)
	}
	// nit-d and nit-b score the same; the ranked college comes first
	assert.Equal(t, []string{"nit-trichy", "nit-a", "nit-c", "nit-d", "nit-b"}, got)
	assert.Equal(t, "-", page.Colleges[4].NIRF)
	assert.Equal(t, "500", page.Colleges[3].NIRF)
}

func TestPredictDeterministicAndPaginated(t *testing.T) {
	var rows []models.CutoffRow
	branches := []string{"Civil Engineering", "Computer Science", "Electrical Engineering", "Mechanical Engineering", "Textile"}
	for i, slug := range []string{"dtu-delhi", "nsut-delhi", "nit-trichy", "iiit-hyderabad"} {
		for j, branch := range branches {
			for k, round := range []string{"Round-1", "Round-2", "Round-10", "CSAB-1"} {
				closing := 50000 + i*3000 + j*1700 + k*900
				rows = append(rows, cutoff(slug, branch, "2024", round, fmt.Sprint(closing)))
			}
		}
	}
	store := &stubStore{rows: rows}
	p := newTestPredictor(t, store)

	full := baseRequest()
	full.PageSize = 100
	first, err := p.Predict(context.Background(), full)
	require.NoError(t, err)
	second, err := p.Predict(context.Background(), full)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	list := first.Colleges
	require.Equal(t, first.TotalResults, len(list))
	for i := 1; i < len(list); i++ {
		prev, cur := list[i-1], list[i]
		require.GreaterOrEqual(t, prev.FinalScore, cur.FinalScore)
		if prev.FinalScore == cur.FinalScore && prev.NIRFRank() == cur.NIRFRank() {
			require.LessOrEqual(t, prev.CollegeName, cur.CollegeName)
		}
	}
	assert.Equal(t, []string{"Round-1", "Round-2", "Round-10", "CSAB-1"}, list[0].RoundOrder["2024"])

	var concat []models.CandidateRecord
	paged := baseRequest()
	paged.PageSize = 3
	for pageNo := 1; ; pageNo++ {
		paged.Page = pageNo
		page, err := p.Predict(context.Background(), paged)
		require.NoError(t, err)
		if pageNo > page.TotalPages {
			assert.Empty(t, page.Colleges)
			break
		}
		concat = append(concat, page.Colleges...)
	}
	assert.Equal(t, list, concat)
}

func mapKeys(m map[string]map[string]int) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestPredictMergesRoundSpellings(t *testing.T) {
	store := &stubStore{rows: []models.CutoffRow{
		cutoff("dtu-delhi", "Mechanical Engineering", "2025", "Round-2", "61000"),
		cutoff("dtu-delhi", "Mechanical Engineering", "2025", "round 2", "62000"),
		cutoff("dtu-delhi", "Mechanical Engineering", "2025", "CSAB 1", "63000"),
	}}
	p := newTestPredictor(t, store)

	page, err := p.Predict(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, page.Colleges, 1)

	got := page.Colleges[0]
	assert.Equal(t, map[string]int{"Round-2": 62000, "CSAB-1": 63000}, got.CutoffsByYear["2025"])
	assert.Equal(t, []string{"Round-2", "CSAB-1"}, got.RoundOrder["2025"])
	assert.Equal(t, "Round-2", got.ClosestRound)
	assert.Equal(t, 62000, got.ClosestClosingRank)
}

func TestPredictReportsExamYearColleges(t *testing.T) {
	unconfigured := models.College{Slug: "anna-university", Name: "Anna University", State: "Tamil Nadu"}
	row := cutoff("dtu-delhi", "Civil Engineering", "2023", "Round-1", "65000")
	row.College = unconfigured
	store := &stubStore{rows: []models.CutoffRow{
		row,
		cutoff("dtu-delhi", "Civil Engineering", "2025", "Round-1", "64000"),
	}}

	var logs bytes.Buffer
	scorer, err := NewScorer(config.DefaultScoring())
	require.NoError(t, err)
	resolver := NewFilterConfigService(catalog.Default(), zerolog.New(io.Discard))
	p := NewPredictionService(store, resolver, scorer, 100, zerolog.New(&logs).Level(zerolog.DebugLevel))

	page, err := p.Predict(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"anna-university"}, page.ExamYearColleges)
	assert.Equal(t, 2, page.TotalResults)
	assert.Contains(t, logs.String(), `"reason":"college_not_configured"`)
	assert.Contains(t, logs.String(), `"slug":"anna-university"`)
}

// rowStore is a read-only store safe for concurrent queries
type rowStore []models.CutoffRow

func (s rowStore) Query(ctx context.Context, _ models.CutoffCriteria) ([]models.CutoffRow, error) {
	return s, ctx.Err()
}

func TestPredictConcurrentCallsAgree(t *testing.T) {
	var rows rowStore
	for i, slug := range []string{"dtu-delhi", "nsut-delhi", "nit-trichy", "iiit-hyderabad"} {
		for j, round := range []string{"Round-1", "Round-3", "CSAB-1"} {
			closing := 55000 + i*2000 + j*1500
			rows = append(rows, cutoff(slug, "Computer Science and Engineering", "2025", round, fmt.Sprint(closing)))
		}
	}
	p := newTestPredictor(t, rows)

	want, err := p.Predict(context.Background(), baseRequest())
	require.NoError(t, err)
	require.NotEmpty(t, want.Colleges)

	const workers = 16
	pages := make([]*models.ResultPage, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := baseRequest()
			if i%2 == 1 {
				req.Mode = models.ModeRisk
			}
			pages[i], errs[i] = p.Predict(context.Background(), req)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i += 2 {
		require.NoError(t, errs[i])
		assert.Equal(t, want, pages[i])
	}
	for i := 1; i < workers; i += 2 {
		require.NoError(t, errs[i])
		assert.Equal(t, pages[1], pages[i])
	}
}
