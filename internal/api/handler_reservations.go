package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/events"
	"restaurant-availability-backend/internal/model"
	"restaurant-availability-backend/internal/parse"
)

type reservationRequest struct {
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	TableID         *int64 `json:"table_id"`
	DurationMinutes int    `json:"duration_minutes"`
	PartySize       int    `json:"party_size" binding:"required,min=1"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	Notes           string `json:"notes"`
}

// apply validates the request and copies it onto res with the date and
// time normalized to YYYY-MM-DD and HH:MM.
func (req reservationRequest) apply(res *model.Reservation) error {
	date, err := parse.Date(req.Date)
	if err != nil {
		return err
	}
	start, err := parse.Clock(req.Time)
	if err != nil {
		return err
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = availability.DefaultDurationMinutes
	}
	if err := checkDuration(duration); err != nil {
		return err
	}

	res.Date = date.String()
	res.Time = start.String()
	res.TableID = req.TableID
	res.DurationMinutes = duration
	res.PartySize = req.PartySize
	res.CustomerName = req.CustomerName
	res.CustomerPhone = req.CustomerPhone
	res.Notes = req.Notes
	return nil
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListReservations handles GET /api/restaurants/:id/reservations. It takes
// either date or a from/to pair and defaults to today.
func (h *Handler) ListReservations(c *gin.Context) {
	today := h.engine.Today()
	from, to := today, today
	if c.Query("date") != "" {
		d, err := dateParam(c, "date")
		if err != nil {
			h.badRequest(c, err.Error())
			return
		}
		from, to = d, d
	}
	if c.Query("from") != "" {
		d, err := dateParam(c, "from")
		if err != nil {
			h.badRequest(c, err.Error())
			return
		}
		from, to = d, d
	}
	if c.Query("to") != "" {
		d, err := dateParam(c, "to")
		if err != nil {
			h.badRequest(c, err.Error())
			return
		}
		to = d
	}
	if to.Before(from) {
		h.badRequest(c, "to must not be before from")
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	rows, err := h.store.ListReservations(c.Request.Context(), r.TenantID, r.ID, from.String(), to.String())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// CreateReservation handles POST /api/restaurants/:id/reservations.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request")
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	res := &model.Reservation{TenantID: r.TenantID, RestaurantID: r.ID}
	if err := req.apply(res); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	if err := h.store.CreateReservation(ctx, res); err != nil {
		h.fail(c, err)
		return
	}
	h.afterReservationWrite(ctx, res, events.ActionCreated)
	c.JSON(http.StatusCreated, res)
}

// UpdateReservation handles PUT /api/restaurants/:id/reservations/:rid.
func (h *Handler) UpdateReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request")
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	res, err := h.store.GetReservation(ctx, r.TenantID, r.ID, c.Param("rid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	previousDate := res.Date
	if err := req.apply(res); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	if err := h.store.UpdateReservation(ctx, res); err != nil {
		h.fail(c, err)
		return
	}

	// Moving a live booking can free its old slot.
	var freed []string
	if availability.ReservationStatus(res.Status).IsLive() {
		freed = append(freed, previousDate, res.Date)
	}
	h.afterReservationWrite(ctx, res, events.ActionUpdated, freed...)
	c.JSON(http.StatusOK, res)
}

// SetReservationStatus handles POST /api/restaurants/:id/reservations/:rid/status.
func (h *Handler) SetReservationStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request")
		return
	}
	status := availability.ReservationStatus(req.Status)
	if !status.Valid() {
		h.badRequest(c, "unknown status "+req.Status)
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	res, err := h.store.SetReservationStatus(ctx, r.TenantID, r.ID, c.Param("rid"), status)
	if err != nil {
		h.fail(c, err)
		return
	}

	var freed []string
	if !status.IsLive() {
		freed = append(freed, res.Date)
	}
	h.afterReservationWrite(ctx, res, events.ActionStatusChanged, freed...)
	c.JSON(http.StatusOK, res)
}
