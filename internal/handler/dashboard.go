package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Igordev7/PricetireForce/internal/apierror"
	"github.com/Igordev7/PricetireForce/internal/dto"
	"github.com/Igordev7/PricetireForce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// analyticsVersionKey is bumped on every successful import so cached
	// analytics variants expire immediately instead of waiting out the TTL.
	analyticsVersionKey = "dashboard:ver"

	analyticsCacheTTL = 10 * time.Minute
)

// DashboardHandler serves the filtered table and the analytics summary.
type DashboardHandler struct {
	svc service.DashboardService
	rdb *redis.Client
}

func NewDashboardHandler(svc service.DashboardService, rdb *redis.Client) *DashboardHandler {
	return &DashboardHandler{svc: svc, rdb: rdb}
}

// Data returns the filtered price table rows.
func (h *DashboardHandler) Data(c *gin.Context) {
	var filter dto.DashboardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros de filtro inválidos"))
		return
	}

	rows, err := h.svc.Data(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Analytics returns the summary statistics, cached per filter combination.
// Cache keys embed a version counter bumped on upload, so stale variants
// die together without key scans.
func (h *DashboardHandler) Analytics(c *gin.Context) {
	var filter dto.DashboardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros de filtro inválidos"))
		return
	}

	ctx := c.Request.Context()
	ver, err := h.rdb.Get(ctx, analyticsVersionKey).Result()
	if err != nil {
		ver = "0"
	}
	cacheKey := "dashboard:analytics:v" + ver + ":" + c.Request.URL.RawQuery

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.AnalyticsResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	resp, err := h.svc.Analytics(ctx, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, analyticsCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
