package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-availability-backend/internal/model"
	"restaurant-availability-backend/internal/mw"
)

type restaurantRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListRestaurants handles GET /api/restaurants.
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.store.ListRestaurants(c.Request.Context(), mw.TenantID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

// CreateRestaurant handles POST /api/restaurants.
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request")
		return
	}

	r := &model.Restaurant{TenantID: mw.TenantID(c), Name: req.Name}
	if err := h.store.CreateRestaurant(c.Request.Context(), r); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}
