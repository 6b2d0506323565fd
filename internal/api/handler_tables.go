package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant-availability-backend/internal/model"
)

type tableRequest struct {
	Zone     string `json:"zone"`
	Number   int    `json:"number"`
	Label    string `json:"label"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	Status   string `json:"status"`
	IsActive *bool  `json:"is_active"`
}

func (req tableRequest) apply(t *model.Table) {
	t.Zone = req.Zone
	t.Number = req.Number
	t.Label = req.Label
	t.Capacity = req.Capacity
	if req.Status != "" {
		t.Status = req.Status
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
}

// ListTables handles GET /api/restaurants/:id/tables.
func (h *Handler) ListTables(c *gin.Context) {
	r, ok := h.restaurant(c)
	if !ok {
		return
	}
	tables, err := h.store.ListTables(c.Request.Context(), r.TenantID, r.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// CreateTable handles POST /api/restaurants/:id/tables.
func (h *Handler) CreateTable(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request")
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	t := &model.Table{TenantID: r.TenantID, RestaurantID: r.ID, IsActive: true}
	req.apply(t)
	if err := h.store.SaveTable(c.Request.Context(), t); err != nil {
		h.fail(c, err)
		return
	}
	h.invalidate(c.Request.Context(), r.TenantID)
	c.JSON(http.StatusCreated, t)
}

// UpdateTable handles PUT /api/restaurants/:id/tables/:table_id.
func (h *Handler) UpdateTable(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("table_id"), 10, 64)
	if err != nil {
		h.badRequest(c, "invalid table id")
		return
	}
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request")
		return
	}
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	t, err := h.store.GetTable(ctx, r.TenantID, r.ID, tableID)
	if err != nil {
		h.fail(c, err)
		return
	}
	req.apply(t)
	if err := h.store.SaveTable(ctx, t); err != nil {
		h.fail(c, err)
		return
	}
	h.invalidate(ctx, r.TenantID)
	c.JSON(http.StatusOK, t)
}
