package http

import (
	"errors"
	"net/http"
	"strconv"

	"rentwatch/internal/dto"
	"rentwatch/internal/service"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAnalyses(base *echo.Group) {
	v1 := base.Group("/v1/analyses")
	{
		v1.POST("", h.runAnalysis)
		v1.GET("/history", h.analysisHistory)
	}
}

func (h *HttpAPIHandler) runAnalysis(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.AnalyzeRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.MarketAnalysisService.Analyze(ctx, *req)
	if err != nil {
		if errors.Is(err, service.ErrAnalysisInProgress) {
			return c.JSON(http.StatusConflict, dto.NewBaseResponse(http.StatusConflict, err.Error(), nil))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to run market analysis", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("market analysis completed", result))
}

func (h *HttpAPIHandler) analysisHistory(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("user_id is required"))
	}

	analyses, err := h.service.MarketAnalysisService.History(ctx, uint(userID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to load analysis history", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("analysis history", analyses))
}
