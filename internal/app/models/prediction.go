package models

// PredictionRequest is the input of a prediction
type PredictionRequest struct {
	Rank         int
	ExamType     string
	SeatType     string
	SubCategory  string
	Quota        string
	HomeState    string
	Mode         Mode
	Page         int
	PageSize     int
	Tags         []string
	MaxFees      *int64
	CollegeSlugs []string
}

// ScoreComponents are the inputs and result of the composite score
type ScoreComponents struct {
	BranchWeight  float64 `json:"branchWeight"`
	CollegeWeight float64 `json:"collegeWeight"`
	RankScore     float64 `json:"rankScore"`
	FinalScore    float64 `json:"finalScore"`
}

// CandidateRecord is one (college, branch, seat type, sub-category, quota)
// combination with its cutoff history and score.
type CandidateRecord struct {
	CollegeSlug string `json:"collegeSlug"`
	CollegeName string `json:"collegeName"`
	State       string `json:"state"`
	Tag         string `json:"tag"`
	Fees        int64  `json:"fees"`
	AvgSalary   int64  `json:"avgSalary"`
	NIRF        string `json:"nirf"`
	Course      string `json:"course"`
	Branch      string `json:"branch"`
	ExamType    string `json:"examType"`
	SeatType    string `json:"seatType"`
	SubCategory string `json:"subCategory"`
	Quota       string `json:"quota"`

	// year -> round -> closing rank
	CutoffsByYear map[string]map[string]int `json:"cutoffsByYear"`
	// year -> round labels in canonical order
	RoundOrder map[string][]string `json:"roundOrder"`

	ClosestYear        string         `json:"closestYear"`
	ClosestRound       string         `json:"closestRound"`
	ClosestClosingRank int            `json:"closestClosingRank"`
	Stretch            bool           `json:"stretch"`
	Classification     Classification `json:"classification"`

	ScoreComponents

	nirfRank int
}

// NIRFRank is the numeric NIRF rank, 0 when unranked.
func (c *CandidateRecord) NIRFRank() int {
	return c.nirfRank
}

// SetNIRFRank stores the numeric rank used for ordering and its display form.
func (c *CandidateRecord) SetNIRFRank(college College) {
	c.NIRF = college.NIRFDisplay()
	c.nirfRank = 0
	if college.NIRFRank != nil && *college.NIRFRank > 0 {
		c.nirfRank = *college.NIRFRank
	}
}

// ResultPage is one page of scored candidates
type ResultPage struct {
	TotalResults   int               `json:"totalResults"`
	TotalPages     int               `json:"totalPages"`
	Page           int               `json:"page"`
	PageSize       int               `json:"pageSize"`
	Mode           Mode              `json:"mode"`
	Colleges       []CandidateRecord `json:"colleges"`
	SkippedRecords int               `json:"skippedRecords"`
	SkippedSamples []string          `json:"skippedSamples,omitempty"`

	// Colleges with no filter configuration for the exam. Their history
	// is bounded by the exam-level years.
	ExamYearColleges []string `json:"examYearColleges,omitempty"`
}

// PartialData reports whether malformed history was skipped.
func (p *ResultPage) PartialData() bool {
	return p.SkippedRecords > 0
}
