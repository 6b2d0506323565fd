package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAvailability handles GET /api/restaurants/:id/availability.
func (h *Handler) GetAvailability(c *gin.Context) {
	q, err := queryParams(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	resp, err := h.engine.Availability(c.Request.Context(), scopeOf(r), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCalendar handles GET /api/restaurants/:id/availability/calendar.
func (h *Handler) GetCalendar(c *gin.Context) {
	year, err := intParam(c, "year", 0)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	month, err := intParam(c, "month", 0)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	if year < 1 || year > 9999 {
		h.badRequest(c, "year is required and must be between 1 and 9999")
		return
	}
	if month < 1 || month > 12 {
		h.badRequest(c, "month is required and must be between 1 and 12")
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	cal, err := h.engine.Monthly(c.Request.Context(), scopeOf(r), year, time.Month(month))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// GetRange handles GET /api/restaurants/:id/availability/range.
func (h *Handler) GetRange(c *gin.Context) {
	from, err := dateParam(c, "from")
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	to, err := dateParam(c, "to")
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	if to.Before(from) {
		h.badRequest(c, "to must not be before from")
		return
	}
	if from.DaysUntil(to) >= maxRangeDays {
		h.badRequest(c, "range is limited to 62 days")
		return
	}
	party, err := partySizeParam(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	duration, err := durationParam(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	days, err := h.engine.Range(c.Request.Context(), scopeOf(r), from, to, party, duration)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// GetAlternatives handles GET /api/restaurants/:id/availability/alternatives.
func (h *Handler) GetAlternatives(c *gin.Context) {
	q, err := queryParams(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	if q.PreferredTime == nil {
		h.badRequest(c, "time is required")
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	slots, err := h.engine.Alternatives(c.Request.Context(), scopeOf(r), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GetCapacity handles GET /api/restaurants/:id/capacity.
func (h *Handler) GetCapacity(c *gin.Context) {
	date, err := dateParam(c, "date")
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	opt, err := h.engine.Capacity(c.Request.Context(), scopeOf(r), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, opt)
}
