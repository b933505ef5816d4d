package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/rankpredictor/internal/app/models/dto"
	"github.com/yigit/rankpredictor/internal/app/services"
	"github.com/yigit/rankpredictor/internal/middleware"
	"github.com/yigit/rankpredictor/internal/pkg/helpers"
)

// PredictionController serves rank predictions
type PredictionController struct {
	predictionService services.PredictionService
	defaultPageSize   int
}

// NewPredictionController creates a new PredictionController
func NewPredictionController(predictionService services.PredictionService, defaultPageSize int) *PredictionController {
	if defaultPageSize <= 0 {
		defaultPageSize = helpers.DefaultPageSize
	}
	return &PredictionController{
		predictionService: predictionService,
		defaultPageSize:   defaultPageSize,
	}
}

// Predict returns colleges likely to admit the given rank
// @Summary Predict colleges for a rank
// @Tags predictions
// @Produce json
// @Param rank query int true "Exam rank" minimum(1)
// @Param examType query string true "Exam type"
// @Param seatType query string true "Seat type"
// @Param homeState query string true "Home state"
// @Param mode query string false "safe or risk"
// @Success 200 {object} dto.APIResponse{data=dto.PredictionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Filters not configured"
// @Failure 503 {object} dto.ErrorResponse "Cutoff store unavailable"
// @Router /predictions [get]
func (c *PredictionController) Predict(ctx *gin.Context) {
	var req dto.PredictionRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	page, err := c.predictionService.Predict(ctx.Request.Context(), req.ToModel(c.defaultPageSize))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if page.PartialData() {
		middleware.RequestLogger(ctx).Warn().
			Int("skippedRecords", page.SkippedRecords).
			Msg("Prediction served with partial data")
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PredictionResponse{
		Mode:             page.Mode,
		Colleges:         page.Colleges,
		Pagination:       helpers.NewPaginationInfo(int64(page.TotalResults), page.Page, page.PageSize),
		TotalResults:     page.TotalResults,
		PartialData:      page.PartialData(),
		SkippedRecords:   page.SkippedRecords,
		SkippedSamples:   page.SkippedSamples,
		ExamYearColleges: page.ExamYearColleges,
	}))
}
