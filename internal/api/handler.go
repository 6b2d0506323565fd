package api

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/cache"
	"restaurant-availability-backend/internal/events"
	"restaurant-availability-backend/internal/model"
	"restaurant-availability-backend/internal/mw"
	"restaurant-availability-backend/internal/notification"
	"restaurant-availability-backend/internal/store"
)

// Dispatcher queues waitlist re-checks. *notification.WorkerPool implements it.
type Dispatcher interface {
	Dispatch(job notification.Job) bool
}

// Deps are the collaborators of the API handlers. Cache, Publisher,
// Waitlist and WebPush are optional.
type Deps struct {
	Store     store.Store
	Engine    *availability.Service
	Cache     cache.Cache
	Publisher events.Publisher
	Waitlist  Dispatcher
	WebPush   *webpush.Options
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	engine    *availability.Service
	cache     cache.Cache
	publisher events.Publisher
	waitlist  Dispatcher
	webpush   *webpush.Options
	errors    *errorMapper
	now       func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	publisher := d.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Handler{
		store:     d.Store,
		engine:    d.Engine,
		cache:     d.Cache,
		publisher: publisher,
		waitlist:  d.Waitlist,
		webpush:   d.WebPush,
		errors:    newErrorMapper(),
		now:       time.Now,
	}
}

// restaurant resolves the :id path parameter to a restaurant of the
// request's tenant, writing the error response when it cannot.
func (h *Handler) restaurant(c *gin.Context) (*model.Restaurant, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.badRequest(c, "invalid restaurant id")
		return nil, false
	}
	r, err := h.store.GetRestaurant(c.Request.Context(), mw.TenantID(c), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return r, true
}

func scopeOf(r *model.Restaurant) availability.Scope {
	return availability.Scope{TenantID: r.TenantID, RestaurantID: r.ID}
}

// afterReservationWrite runs the side effects of a successful reservation
// write. freed lists dates on which a table may have opened up.
func (h *Handler) afterReservationWrite(ctx context.Context, res *model.Reservation, action string, freed ...string) {
	if err := h.publisher.Publish(ctx, events.ReservationChanged{
		TenantID:      res.TenantID,
		RestaurantID:  res.RestaurantID,
		ReservationID: res.ID,
		Action:        action,
		Date:          res.Date,
		Status:        res.Status,
		OccurredAt:    h.now().UTC(),
	}); err != nil {
		slog.Warn("failed to publish reservation event", slog.String("reservation", res.ID), slog.Any("error", err))
	}

	h.invalidate(ctx, res.TenantID)

	if h.waitlist == nil {
		return
	}
	seen := map[string]bool{}
	for _, date := range freed {
		if date == "" || seen[date] {
			continue
		}
		seen[date] = true
		h.waitlist.Dispatch(notification.Job{TenantID: res.TenantID, RestaurantID: res.RestaurantID, Date: date})
	}
}

// invalidate evicts the tenant's cached availability.
func (h *Handler) invalidate(ctx context.Context, tenantID string) {
	if h.cache == nil {
		return
	}
	if err := cache.InvalidateTenant(ctx, h.cache, tenantID); err != nil {
		slog.Warn("failed to invalidate availability cache", slog.String("tenant", tenantID), slog.Any("error", err))
	}
}
