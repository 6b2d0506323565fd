package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"restaurant-availability-backend/internal/cache"
	"restaurant-availability-backend/internal/mw"
)

// RouterOptions configures the shared middleware.
type RouterOptions struct {
	// Limiter applies per-client rate limiting when set.
	Limiter  *mw.IPRateLimiter
	IPHeader string
	// Cache serves availability GETs when set.
	Cache    cache.Cache
	CacheTTL time.Duration
}

// DefaultLimiter allows 10 requests per second with a burst of 5.
func DefaultLimiter() *mw.IPRateLimiter {
	return mw.NewIPRateLimiter(rate.Limit(10), 5)
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	if opts.Limiter != nil {
		api.Use(mw.RateLimiter(opts.Limiter, opts.IPHeader))
	}

	api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

	tenant := api.Group("")
	tenant.Use(mw.Tenant())
	{
		tenant.GET("/restaurants", h.ListRestaurants)
		tenant.POST("/restaurants", h.CreateRestaurant)

		restaurant := tenant.Group("/restaurants/:id")

		caching := []gin.HandlerFunc{}
		if opts.Cache != nil {
			caching = append(caching, mw.Cache(opts.Cache, opts.CacheTTL))
		}
		avail := restaurant.Group("", caching...)
		avail.GET("/availability", h.GetAvailability)
		avail.GET("/availability/calendar", h.GetCalendar)
		avail.GET("/availability/range", h.GetRange)
		avail.GET("/availability/alternatives", h.GetAlternatives)
		avail.GET("/capacity", h.GetCapacity)

		restaurant.GET("/tables", h.ListTables)
		restaurant.POST("/tables", h.CreateTable)
		restaurant.PUT("/tables/:table_id", h.UpdateTable)

		restaurant.GET("/reservations", h.ListReservations)
		restaurant.POST("/reservations", h.CreateReservation)
		restaurant.PUT("/reservations/:rid", h.UpdateReservation)
		restaurant.POST("/reservations/:rid/status", h.SetReservationStatus)

		restaurant.POST("/waitlist", h.JoinWaitlist)
		restaurant.DELETE("/waitlist/:wid", h.LeaveWaitlist)
	}

	return r
}
