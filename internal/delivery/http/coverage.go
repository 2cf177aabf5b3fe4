package http

import (
	"net/http"

	"rentwatch/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupCoverage(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.POST("/coverage", h.ensureCoverage)
		v1.GET("/stats", h.listingStats)
	}
}

func (h *HttpAPIHandler) ensureCoverage(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.EnsureCoverageRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	created, err := h.service.CoverageService.EnsureCoverage(ctx, req.Location, dto.NormalizePropertyType(req.PropertyType), req.Bedrooms, req.MinCount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to ensure coverage", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("coverage ensured", map[string]int64{"created": created}))
}

func (h *HttpAPIHandler) listingStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.service.MarketAnalysisService.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to load listing stats", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("listing stats", stats))
}
