package api

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/model"
	"restaurant-availability-backend/internal/notification"
	"restaurant-availability-backend/internal/parse"
)

type waitlistRequest struct {
	Date            string               `json:"date" binding:"required"`
	PreferredTime   string               `json:"preferred_time" binding:"required"`
	PartySize       int                  `json:"party_size" binding:"required,min=1"`
	DurationMinutes int                  `json:"duration_minutes"`
	ContactName     string               `json:"contact_name"`
	Subscription    webpush.Subscription `json:"subscription"`
}

// JoinWaitlist handles POST /api/restaurants/:id/waitlist.
func (h *Handler) JoinWaitlist(c *gin.Context) {
	var req waitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request")
		return
	}
	date, err := parse.Date(req.Date)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	if date.Before(h.engine.Today()) {
		h.badRequest(c, "date is in the past")
		return
	}
	preferred, err := parse.Clock(req.PreferredTime)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = availability.DefaultDurationMinutes
	}
	if err := checkDuration(duration); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	entry := &model.WaitlistEntry{
		TenantID:        r.TenantID,
		RestaurantID:    r.ID,
		Date:            date.String(),
		PreferredTime:   preferred.String(),
		PartySize:       req.PartySize,
		DurationMinutes: duration,
		ContactName:     req.ContactName,
		Endpoint:        req.Subscription.Endpoint,
		P256DH:          req.Subscription.Keys.P256dh,
		Auth:            req.Subscription.Keys.Auth,
	}
	if err := h.store.CreateWaitlistEntry(c.Request.Context(), entry); err != nil {
		h.fail(c, err)
		return
	}

	// A table may already be free; let the workers check right away.
	if h.waitlist != nil {
		h.waitlist.Dispatch(notification.Job{TenantID: r.TenantID, RestaurantID: r.ID, Date: entry.Date})
	}
	c.JSON(http.StatusCreated, entry)
}

// LeaveWaitlist handles DELETE /api/restaurants/:id/waitlist/:wid.
func (h *Handler) LeaveWaitlist(c *gin.Context) {
	r, ok := h.restaurant(c)
	if !ok {
		return
	}
	if err := h.store.CancelWaitlistEntry(c.Request.Context(), r.TenantID, r.ID, c.Param("wid")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
