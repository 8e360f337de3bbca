package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salesdash/api/cache"
	"salesdash/api/dataset"
	"salesdash/api/logger"
	"salesdash/api/metrics"
	"salesdash/api/models"
	"salesdash/api/report"
	"salesdash/api/rfm"
	"salesdash/api/store"
	"salesdash/api/utils"
)

const invalidRangeMessage = "Please select a valid date range (Start & End)"

// DashboardCache stores rendered dashboards between requests.
type DashboardCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// DashboardHandlers serves the read-only dashboard and stats endpoints.
type DashboardHandlers struct {
	Source     store.OrderSource
	SourceName string
	Cache      DashboardCache // optional
}

// NewDashboardHandlers builds handlers over source. sourceName labels
// metrics and cache keys; c may be nil to disable caching.
func NewDashboardHandlers(source store.OrderSource, sourceName string, c DashboardCache) *DashboardHandlers {
	return &DashboardHandlers{Source: source, SourceName: sourceName, Cache: c}
}

// GetRange reports the first and last purchase dates of the source.
func (h *DashboardHandlers) GetRange(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	lo, hi, err := h.Source.Bounds(ctx)
	if err != nil {
		h.respondSourceError(c, "Error getting dataset bounds", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"minDate": lo.Format(utils.DateLayout),
		"maxDate": hi.Format(utils.DateLayout),
	})
}

// GetDashboard returns every chart for the range, served from the cache
// when one is configured.
func (h *DashboardHandlers) GetDashboard(c *gin.Context) {
	r, ok := h.resolveRange(c)
	if !ok {
		return
	}

	key := cache.Key(h.SourceName, r.Start, r.End)
	if h.Cache != nil {
		var cached models.Dashboard
		found, err := h.Cache.Get(c.Request.Context(), key, &cached)
		if err != nil {
			logger.Warn("Dashboard cache read failed", zap.Error(err))
		}
		if found {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	orders, ok := h.loadOrders(c, r)
	if !ok {
		return
	}
	dash, err := report.Build(orders, r)
	if err != nil {
		logger.Error("Error building dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Set(c.Request.Context(), key, dash); err != nil {
			logger.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, dash)
}

func (h *DashboardHandlers) GetRevenueByState(c *gin.Context) {
	h.groupRevenue(c, report.RevenueByState)
}

func (h *DashboardHandlers) GetRevenueByCity(c *gin.Context) {
	h.groupRevenue(c, report.RevenueByCity)
}

func (h *DashboardHandlers) groupRevenue(c *gin.Context, agg func([]models.OrderLine, int) []models.GroupRevenue) {
	limit := report.TopLocations
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		limit = parsed
	}

	r, ok := h.resolveRange(c)
	if !ok {
		return
	}
	orders, ok := h.loadOrders(c, r)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, agg(orders, limit))
}

// GetCategoryPerformance returns per-category revenue and quantity with a summary.
func (h *DashboardHandlers) GetCategoryPerformance(c *gin.Context) {
	r, ok := h.resolveRange(c)
	if !ok {
		return
	}
	orders, ok := h.loadOrders(c, r)
	if !ok {
		return
	}
	categories := report.CategoryPerformance(orders)
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"summary":    report.SummarizeCategories(categories),
	})
}

// GetRFM returns every scored customer along with the segment charts.
func (h *DashboardHandlers) GetRFM(c *gin.Context) {
	h.rfm(c, true)
}

// GetRFMSegments returns the segment charts without per-customer rows.
func (h *DashboardHandlers) GetRFMSegments(c *gin.Context) {
	h.rfm(c, false)
}

func (h *DashboardHandlers) rfm(c *gin.Context, withCustomers bool) {
	r, ok := h.resolveRange(c)
	if !ok {
		return
	}
	orders, ok := h.loadOrders(c, r)
	if !ok {
		return
	}

	out, err := report.RFM(orders, withCustomers)
	if errors.Is(err, rfm.ErrInsufficientCustomers) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Error("Error computing RFM segmentation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute customer segmentation"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// resolveRange reads start/end, defaulting to the source's full range.
func (h *DashboardHandlers) resolveRange(c *gin.Context) (models.DateRange, bool) {
	startParam, endParam := c.Query("start"), c.Query("end")

	var lo, hi time.Time
	if startParam == "" || endParam == "" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		var err error
		lo, hi, err = h.Source.Bounds(ctx)
		if err != nil {
			h.respondSourceError(c, "Error getting dataset bounds", err)
			return models.DateRange{}, false
		}
	}

	start, err := utils.ParseDateParam(startParam, dataset.Midnight(lo))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' date: " + err.Error()})
		return models.DateRange{}, false
	}
	end, err := utils.ParseDateParam(endParam, dataset.Midnight(hi))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' date: " + err.Error()})
		return models.DateRange{}, false
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRangeMessage})
		return models.DateRange{}, false
	}
	return models.DateRange{Start: start, End: end}, true
}

func (h *DashboardHandlers) loadOrders(c *gin.Context, r models.DateRange) ([]models.OrderLine, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	orders, err := h.Source.LoadOrders(ctx, r.Start, r.End)
	if err != nil {
		h.respondSourceError(c, "Error loading order lines", err)
		return nil, false
	}
	metrics.OrdersLoaded.WithLabelValues(h.SourceName).Observe(float64(len(orders)))
	return orders, true
}

func (h *DashboardHandlers) respondSourceError(c *gin.Context, msg string, err error) {
	if errors.Is(err, store.ErrNoOrders) || errors.Is(err, dataset.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No orders available"})
		return
	}
	logger.Error(msg, zap.String("source", h.SourceName), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read orders"})
}
