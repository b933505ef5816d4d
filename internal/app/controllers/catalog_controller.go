package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/rankpredictor/internal/app/models/dto"
	"github.com/yigit/rankpredictor/internal/app/services"
	"github.com/yigit/rankpredictor/internal/catalog"
	"github.com/yigit/rankpredictor/internal/middleware"
	"github.com/yigit/rankpredictor/internal/pkg/apperrors"
)

// maxCatalogBody bounds uploaded catalog documents
const maxCatalogBody = 1 << 20

// CatalogController serves operator views of the filter catalog
type CatalogController struct {
	filterService services.FilterConfigService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(filterService services.FilterConfigService) *CatalogController {
	return &CatalogController{
		filterService: filterService,
	}
}

// Report summarises the catalog currently in use
// @Summary Live catalog report
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CatalogReportResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/catalog/report [get]
func (c *CatalogController) Report(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.CatalogReportResponse{
		Valid:    true,
		Problems: []string{},
		Summary:  c.filterService.Catalog().Summarize(),
	}))
}

// Validate checks a YAML catalog overlay without applying it
// @Summary Validate a catalog document
// @Tags admin
// @Accept application/x-yaml
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CatalogReportResponse}
// @Failure 400 {object} dto.ErrorResponse "Empty or oversized body"
// @Router /admin/catalog/validate [post]
func (c *CatalogController) Validate(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxCatalogBody+1))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("failed to read catalog document"))
		return
	}
	if len(body) == 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("body", "catalog document is empty"))
		return
	}
	if len(body) > maxCatalogBody {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("body", "catalog document exceeds 1 MiB"))
		return
	}

	resp := dto.CatalogReportResponse{Valid: true, Problems: []string{}}
	cat, err := catalog.Parse(body, catalog.DefaultDefinition())
	if err != nil {
		resp.Valid = false
		resp.Problems = catalog.Problems(err)
	} else {
		resp.Summary = cat.Summarize()
	}

	middleware.RequestLogger(ctx).Info().
		Bool("valid", resp.Valid).
		Int("problems", len(resp.Problems)).
		Str("operator", ctx.GetString(middleware.ContextSubject)).
		Msg("Catalog document validated")

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}
