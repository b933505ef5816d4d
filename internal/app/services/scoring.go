package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/config"
)

// Scorer computes the composite relevance score of a candidate
type Scorer struct {
	cfg config.Scoring
}

// NewScorer validates the scoring constants and builds a Scorer
func NewScorer(cfg config.Scoring) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scorer: %w", err)
	}
	priors := make([]config.BranchPrior, len(cfg.BranchPriors))
	for i, p := range cfg.BranchPriors {
		priors[i] = config.BranchPrior{Keyword: strings.ToLower(strings.TrimSpace(p.Keyword)), Weight: p.Weight}
	}
	cfg.BranchPriors = priors
	return &Scorer{cfg: cfg}, nil
}

// Score combines rank fit, college desirability and branch desirability.
// closingRank must be positive.
func (s *Scorer) Score(rank, closingRank int, college models.College, branch string) models.ScoreComponents {
	rs := RankScore(rank, closingRank)
	cw := s.CollegeWeight(college)
	bw := s.BranchWeight(college, branch)

	final := s.cfg.RankWeight*rs + s.cfg.CollegeWeight*cw + s.cfg.BranchWeight*bw

	return models.ScoreComponents{
		RankScore:     round6(rs),
		CollegeWeight: round6(cw),
		BranchWeight:  round6(bw),
		FinalScore:    round6(final),
	}
}

// RankScore is 1 for an exact match and falls linearly with the relative
// distance to the closing rank.
func RankScore(rank, closingRank int) float64 {
	if closingRank <= 0 {
		return 0
	}
	d := math.Abs(float64(rank - closingRank))
	return clamp01(1 - d/float64(closingRank))
}

// CollegeWeight blends a NIRF score with a salary score. Unranked colleges
// get no NIRF credit.
func (s *Scorer) CollegeWeight(college models.College) float64 {
	nirf := 0.0
	if college.NIRFRank != nil && *college.NIRFRank > 0 {
		nirf = clamp01(1 - float64(*college.NIRFRank-1)/float64(s.cfg.NIRFCeiling))
	}
	salary := 0.0
	if college.AvgSalary > 0 {
		salary = clamp01(float64(college.AvgSalary) / float64(s.cfg.SalaryCeiling))
	}
	return s.cfg.NIRFShare*nirf + (1-s.cfg.NIRFShare)*salary
}

// BranchWeight uses the placement rate when known, then the first keyword
// prior matching the branch name, then the default prior.
func (s *Scorer) BranchWeight(college models.College, branch string) float64 {
	if college.PlacementRate != nil {
		return clamp01(*college.PlacementRate)
	}
	name := strings.ToLower(branch)
	for _, p := range s.cfg.BranchPriors {
		if strings.Contains(name, p.Keyword) {
			return p.Weight
		}
	}
	return s.cfg.DefaultBranchWeight
}

// StretchFallback reports whether safe mode keeps candidates no round admits.
func (s *Scorer) StretchFallback() bool {
	return s.cfg.StretchFallback
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
