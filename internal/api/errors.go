package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-availability-backend/internal/store"
)

type errorMapping struct {
	err    error
	status int
}

// errorMapper translates store errors into HTTP statuses. Client errors
// carry the error text; anything unmapped is logged and hidden.
type errorMapper struct {
	mappings []errorMapping
}

func newErrorMapper() *errorMapper {
	return &errorMapper{mappings: []errorMapping{
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrTableConflict, http.StatusConflict},
		{store.ErrInvalidStatus, http.StatusConflict},
		{store.ErrTableUnavailable, http.StatusUnprocessableEntity},
		{store.ErrTableTooSmall, http.StatusUnprocessableEntity},
		{store.ErrInvalidInput, http.StatusBadRequest},
	}}
}

func (m *errorMapper) status(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.err) {
			return mapping.status
		}
	}
	return http.StatusInternalServerError
}

// fail aborts the request with the status mapped from err.
func (h *Handler) fail(c *gin.Context, err error) {
	status := h.errors.status(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", slog.String("path", c.FullPath()), slog.Any("error", err))
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
