package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/rankpredictor/internal/app/models/dto"
	"github.com/yigit/rankpredictor/internal/app/services"
	"github.com/yigit/rankpredictor/internal/catalog"
	"github.com/yigit/rankpredictor/internal/middleware"
	"github.com/yigit/rankpredictor/internal/pkg/apperrors"
	"github.com/yigit/rankpredictor/internal/pkg/rounds"
)

// FilterController exposes resolved filter options for predictor forms
type FilterController struct {
	filterService services.FilterConfigService
}

// NewFilterController creates a new FilterController
func NewFilterController(filterService services.FilterConfigService) *FilterController {
	return &FilterController{
		filterService: filterService,
	}
}

// GetCollegeFilters resolves the filters for one college and exam
// @Summary Resolve college filters
// @Tags filters
// @Produce json
// @Param slug path string true "College slug"
// @Param examType query string true "Exam type"
// @Success 200 {object} dto.APIResponse{data=dto.FilterOptionsResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /colleges/{slug}/filters [get]
func (c *FilterController) GetCollegeFilters(ctx *gin.Context) {
	var uri dto.CollegeURI
	var query dto.ExamQuery
	if !middleware.BindURI(ctx, &uri) || !middleware.BindQuery(ctx, &query) {
		return
	}

	opts, err := c.filterService.Resolve(uri.Slug, query.ExamType)
	if errors.Is(err, apperrors.ErrNotConfigured) {
		// The form hides the tab instead of showing an error
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FilterOptionsResponse{Configured: false}))
		return
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FilterOptionsResponse{Configured: true, Options: opts}))
}

// GetCollegeExamTypes lists the exam tabs of a college
// @Summary List exam types of a college
// @Tags filters
// @Produce json
// @Param slug path string true "College slug"
// @Success 200 {object} dto.APIResponse{data=dto.ExamTypesResponse}
// @Router /colleges/{slug}/exam-types [get]
func (c *FilterController) GetCollegeExamTypes(ctx *gin.Context) {
	var uri dto.CollegeURI
	if !middleware.BindURI(ctx, &uri) {
		return
	}

	slug := strings.ToLower(uri.Slug)
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ExamTypesResponse{
		CollegeSlug: slug,
		Tag:         effectiveTag(c.filterService.Catalog(), slug).String(),
		ExamTypes:   c.filterService.AvailableExamTypes(slug),
	}))
}

// ListExams returns the exam-level filters for the global predictor
// @Summary List exams
// @Tags filters
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse}
// @Router /exams [get]
func (c *FilterController) ListExams(ctx *gin.Context) {
	cat := c.filterService.Catalog()
	exams := make([]dto.ExamResponse, 0, len(cat.ExamTypes()))
	for _, examType := range cat.ExamTypes() {
		opts, err := c.filterService.ExamOptions(examType)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		def, _ := cat.Exam(examType)
		name := def.DisplayName
		if name == "" {
			name = examType
		}
		exams = append(exams, dto.ExamResponse{ExamType: examType, DisplayName: name, Options: opts})
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(exams))
}

// GetRoundOrder sorts round labels into counselling order
// @Summary Order round labels
// @Tags rounds
// @Produce json
// @Param labels query string true "Comma separated or repeated labels"
// @Success 200 {object} dto.APIResponse{data=dto.RoundOrderResponse}
// @Router /rounds/order [get]
func (c *FilterController) GetRoundOrder(ctx *gin.Context) {
	var labels []string
	for _, v := range ctx.QueryArray("labels") {
		for _, l := range strings.Split(v, ",") {
			if l = strings.TrimSpace(l); l != "" {
				labels = append(labels, l)
			}
		}
	}
	if len(labels) == 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("labels", "at least one round label is required"))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.RoundOrderResponse{Labels: rounds.Sorted(labels)}))
}

// effectiveTag is the configured fallback tag of a college, or the tag its
// slug classifies as
func effectiveTag(cat *catalog.Catalog, slug string) catalog.CollegeTag {
	if cc, ok := cat.College(slug); ok {
		if tag, ok := cc.Fallback(); ok {
			return tag
		}
	}
	return catalog.ClassifySlug(slug)
}
