package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/coilstock/internal/domain/models"
	"github.com/mamadbah2/coilstock/internal/service/inventory"
	"github.com/mamadbah2/coilstock/internal/service/stats"
)

// CoilHandler adapts the inventory and statistics services to HTTP.
type CoilHandler struct {
	inventory *inventory.Service
	stats     *stats.Service
	logger    *zap.Logger
}

// NewCoilHandler constructs the HTTP handler adapter.
func NewCoilHandler(inventorySvc *inventory.Service, statsSvc *stats.Service, logger *zap.Logger) *CoilHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoilHandler{inventory: inventorySvc, stats: statsSvc, logger: logger}
}

type createCoilRequest struct {
	Length *int64 `json:"length"`
	Weight *int64 `json:"weight"`
}

// Create registers a new coil. The add date is stamped server-side.
func (h *CoilHandler) Create(c *gin.Context) {
	var req createCoilRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create payload", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
		return
	}
	if req.Length == nil || req.Weight == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "length and weight are required"})
		return
	}

	id, err := h.inventory.Create(c.Request.Context(), *req.Length, *req.Weight)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// GetByID returns a single coil record.
func (h *CoilHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "id must be an integer"})
		return
	}

	coil, err := h.inventory.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, coil)
}

// List returns the coils matching the combined range filter. Every bound is
// optional, but a bound without its counterpart is ignored entirely rather
// than applied one-sided; that is the documented filter policy.
func (h *CoilHandler) List(c *gin.Context) {
	var ranges []models.FieldRange

	intPairs := []struct {
		field    models.RangeField
		min, max string
	}{
		{models.FieldID, "start_id", "end_id"},
		{models.FieldWeight, "start_weight", "end_weight"},
		{models.FieldLength, "start_length", "end_length"},
	}
	for _, p := range intPairs {
		rng, ok, err := intRangeFromQuery(c, p.field, p.min, p.max)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if ok {
			ranges = append(ranges, rng)
		}
	}

	datePairs := []struct {
		field    models.RangeField
		min, max string
	}{
		{models.FieldAddDate, "start_add_date", "end_add_date"},
		{models.FieldDeleteDate, "start_delete_date", "end_delete_date"},
	}
	for _, p := range datePairs {
		rng, ok, err := dateRangeFromQuery(c, p.field, p.min, p.max)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if ok {
			ranges = append(ranges, rng)
		}
	}

	coils, err := h.inventory.Filter(c.Request.Context(), ranges)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, coils)
}

// FilterByID handles the single-field id range endpoint.
func (h *CoilHandler) FilterByID(c *gin.Context) {
	h.filterSingle(c, models.FieldID, "min_id", "max_id")
}

// FilterByLength handles the single-field length range endpoint.
func (h *CoilHandler) FilterByLength(c *gin.Context) {
	h.filterSingle(c, models.FieldLength, "min_length", "max_length")
}

// FilterByWeight handles the single-field weight range endpoint.
func (h *CoilHandler) FilterByWeight(c *gin.Context) {
	h.filterSingle(c, models.FieldWeight, "min_weight", "max_weight")
}

// FilterByAddDate handles the single-field add_date range endpoint.
func (h *CoilHandler) FilterByAddDate(c *gin.Context) {
	h.filterSingle(c, models.FieldAddDate, "min_add_date", "max_add_date")
}

// FilterByDeleteDate handles the single-field delete_date range endpoint.
func (h *CoilHandler) FilterByDeleteDate(c *gin.Context) {
	h.filterSingle(c, models.FieldDeleteDate, "min_delete_date", "max_delete_date")
}

// filterSingle serves the legacy one-field range endpoints. Unlike the
// combined filter, both bounds are required and an empty result is a 404.
func (h *CoilHandler) filterSingle(c *gin.Context, field models.RangeField, minParam, maxParam string) {
	var (
		rng models.FieldRange
		ok  bool
		err error
	)
	if field == models.FieldAddDate || field == models.FieldDeleteDate {
		rng, ok, err = dateRangeFromQuery(c, field, minParam, maxParam)
	} else {
		rng, ok, err = intRangeFromQuery(c, field, minParam, maxParam)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": minParam + " and " + maxParam + " are required"})
		return
	}

	coils, err := h.inventory.Filter(c.Request.Context(), []models.FieldRange{rng})
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(coils) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "coil not found"})
		return
	}

	c.JSON(http.StatusOK, coils)
}

// Stats returns the statistics report for an inclusive date interval.
func (h *CoilHandler) Stats(c *gin.Context) {
	start, err := requiredDate(c, "interval_start")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	end, err := requiredDate(c, "interval_end")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	report, err := h.stats.Report(c.Request.Context(), start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Delete stamps the coil's removal date.
func (h *CoilHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "id must be an integer"})
		return
	}

	deletedID, err := h.inventory.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": deletedID})
}

// respondError maps service errors to status codes. Validation detail is
// safe to return; store and unknown failures are logged and masked.
func (h *CoilHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "coil not found"})
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrStore):
		h.logger.Error("record store failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unavailable"})
	default:
		h.logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// intRangeFromQuery reads an integer bound pair. ok is false when either
// bound is absent, which callers treat as "filter not requested".
func intRangeFromQuery(c *gin.Context, field models.RangeField, minParam, maxParam string) (models.FieldRange, bool, error) {
	minRaw, maxRaw := c.Query(minParam), c.Query(maxParam)
	if minRaw == "" || maxRaw == "" {
		return models.FieldRange{}, false, nil
	}

	minVal, err := strconv.ParseInt(minRaw, 10, 64)
	if err != nil {
		return models.FieldRange{}, false, errors.New(minParam + " must be an integer")
	}
	maxVal, err := strconv.ParseInt(maxRaw, 10, 64)
	if err != nil {
		return models.FieldRange{}, false, errors.New(maxParam + " must be an integer")
	}

	return models.IntRange(field, minVal, maxVal), true, nil
}

// dateRangeFromQuery reads a YYYY-MM-DD bound pair, same contract as
// intRangeFromQuery.
func dateRangeFromQuery(c *gin.Context, field models.RangeField, minParam, maxParam string) (models.FieldRange, bool, error) {
	minRaw, maxRaw := c.Query(minParam), c.Query(maxParam)
	if minRaw == "" || maxRaw == "" {
		return models.FieldRange{}, false, nil
	}

	minVal, err := models.ParseDate(minRaw)
	if err != nil {
		return models.FieldRange{}, false, errors.New(minParam + " must be a YYYY-MM-DD date")
	}
	maxVal, err := models.ParseDate(maxRaw)
	if err != nil {
		return models.FieldRange{}, false, errors.New(maxParam + " must be a YYYY-MM-DD date")
	}

	return models.DateRange(field, minVal, maxVal), true, nil
}

func requiredDate(c *gin.Context, param string) (models.Date, error) {
	raw := c.Query(param)
	if raw == "" {
		return models.Date{}, errors.New(param + " is required")
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, errors.New(param + " must be a YYYY-MM-DD date")
	}
	return d, nil
}
