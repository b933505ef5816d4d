package dto

import (
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/catalog"
)

// CollegeURI is the college path parameter
type CollegeURI struct {
	Slug string `uri:"slug" binding:"required,slug"`
}

// ExamQuery selects the exam of a filter lookup
type ExamQuery struct {
	ExamType string `form:"examType" binding:"required"`
}

// FilterOptionsResponse carries resolved filters. Configured is false when
// the college and exam have no filter definition.
type FilterOptionsResponse struct {
	Configured bool                  `json:"configured"`
	Options    *models.FilterOptions `json:"options,omitempty"`
}

// ExamTypesResponse lists the exam tabs available for a college
type ExamTypesResponse struct {
	CollegeSlug string   `json:"collegeSlug"`
	Tag         string   `json:"tag"`
	ExamTypes   []string `json:"examTypes"`
}

// ExamResponse describes one exam for the global predictor
type ExamResponse struct {
	ExamType    string                `json:"examType"`
	DisplayName string                `json:"displayName"`
	Options     *models.FilterOptions `json:"options"`
}

// RoundOrderResponse is a list of round labels in canonical order
type RoundOrderResponse struct {
	Labels []string `json:"labels"`
}

// CatalogReportResponse summarises a catalog and its problems
type CatalogReportResponse struct {
	Valid    bool            `json:"valid"`
	Problems []string        `json:"problems"`
	Summary  catalog.Summary `json:"summary"`
}
