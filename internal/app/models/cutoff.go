package models

import "strconv"

// College is the static metadata stored alongside cutoff history
type College struct {
	Slug          string   `json:"slug" yaml:"slug"`
	Name          string   `json:"name" yaml:"name"`
	State         string   `json:"state" yaml:"state"`
	Tag           string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Fees          int64    `json:"fees" yaml:"fees"`
	AvgSalary     int64    `json:"avgSalary" yaml:"avg_salary"`
	NIRFRank      *int     `json:"nirfRank,omitempty" yaml:"nirf_rank,omitempty"`
	PlacementRate *float64 `json:"placementRate,omitempty" yaml:"placement_rate,omitempty"`
}

// NIRFDisplay renders the NIRF rank, or "-" when unranked.
func (c College) NIRFDisplay() string {
	if c.NIRFRank == nil || *c.NIRFRank <= 0 {
		return "-"
	}
	return strconv.Itoa(*c.NIRFRank)
}

// CutoffRow is one raw historical closing rank as read from the store.
// ClosingRank stays a string because ingested data is not guaranteed to be
// numeric.
type CutoffRow struct {
	College     College `json:"college"`
	ExamType    string  `json:"examType"`
	Course      string  `json:"course"`
	Branch      string  `json:"branch"`
	SeatType    string  `json:"seatType"`
	SubCategory string  `json:"subCategory"`
	Quota       string  `json:"quota"`
	Year        string  `json:"year"`
	Round       string  `json:"round"`
	ClosingRank string  `json:"closingRank"`
}

// CutoffCriteria selects rows from the store. Empty fields match anything.
type CutoffCriteria struct {
	ExamType     string
	SeatType     string
	SubCategory  string
	Quota        string
	CollegeSlugs []string
}
