package dto

import (
	"strings"

	"github.com/yigit/rankpredictor/internal/app/models"
)

// PredictionRequest is bound from the query string of GET /predictions
type PredictionRequest struct {
	Rank        int      `form:"rank" binding:"required,min=1"`
	ExamType    string   `form:"examType" binding:"required"`
	SeatType    string   `form:"seatType" binding:"required"`
	SubCategory string   `form:"subCategory"`
	Quota       string   `form:"quota"`
	HomeState   string   `form:"homeState" binding:"required"`
	Mode        string   `form:"mode"`
	Page        *int     `form:"page"`
	PageSize    *int     `form:"pageSize"`
	Tags        []string `form:"tag"`
	MaxFees     *int64   `form:"maxFees" binding:"omitempty,min=0"`
	Colleges    []string `form:"college" binding:"omitempty,dive,slug"`
}

// ToModel maps the query onto the engine request. Comma separated tag and
// college lists are accepted as well as repeated parameters. Defaults apply
// only to absent page parameters; explicit values, zero included, are left
// for the engine to validate.
func (r *PredictionRequest) ToModel(defaultPageSize int) *models.PredictionRequest {
	mode := models.Mode(strings.ToLower(r.Mode))
	if mode == "" {
		mode = models.ModeSafe
	}
	page := 1
	if r.Page != nil {
		page = *r.Page
	}
	pageSize := defaultPageSize
	if r.PageSize != nil {
		pageSize = *r.PageSize
	}

	return &models.PredictionRequest{
		Rank:         r.Rank,
		ExamType:     r.ExamType,
		SeatType:     r.SeatType,
		SubCategory:  r.SubCategory,
		Quota:        r.Quota,
		HomeState:    r.HomeState,
		Mode:         mode,
		Page:         page,
		PageSize:     pageSize,
		Tags:         splitList(r.Tags),
		MaxFees:      r.MaxFees,
		CollegeSlugs: splitList(r.Colleges),
	}
}

// PredictionResponse is one page of predictions
type PredictionResponse struct {
	Mode           models.Mode              `json:"mode"`
	Colleges       []models.CandidateRecord `json:"colleges"`
	Pagination     PaginationInfo           `json:"pagination"`
	TotalResults   int                      `json:"totalResults"`
	PartialData    bool                     `json:"partialData"`
	SkippedRecords int                      `json:"skippedRecords"`
	SkippedSamples []string                 `json:"skippedSamples,omitempty"`

	ExamYearColleges []string `json:"examYearColleges,omitempty"`
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
