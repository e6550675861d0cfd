package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndelorme/commute-advisor/internal/aggregator"
	"github.com/ndelorme/commute-advisor/internal/server/utils"
	"go.uber.org/zap"
)

// Dashboarder is the sole entry point the transport layer calls.
type Dashboarder interface {
	GetDashboard(ctx context.Context, address string) (*aggregator.DashboardResult, error)
}

type DashboardHandler struct {
	aggregator Dashboarder
	logger     *zap.Logger
}

func NewDashboardHandler(agg Dashboarder, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		aggregator: agg,
		logger:     logger,
	}
}

// GetDashboard serves GET /dashboard?address=... . The aggregator's result
// is serialized as-is: a degraded aggregation is still a 200, only a
// missing address is rejected.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger.With(zap.String("request_id", requestID))

	var req DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: utils.FormatValidationErrors(err),
		})
		return
	}

	reqLogger.Info("Processing dashboard request", zap.String("address", req.Address))

	result, err := h.aggregator.GetDashboard(ctx, req.Address)
	if err != nil {
		if errors.Is(err, aggregator.ErrEmptyAddress) {
			reqLogger.Warn("Empty address rejected")
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Address must not be empty",
				Code:  "EMPTY_ADDRESS",
			})
			return
		}

		reqLogger.Error("Dashboard aggregation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to build dashboard",
			Code:    "AGGREGATION_ERROR",
			Details: err.Error(),
		})
		return
	}

	reqLogger.Info("Dashboard request completed",
		zap.String("recommendation", string(result.Recommendation)),
		zap.Bool("degraded", result.Degraded))

	c.JSON(http.StatusOK, result)
}
