package mw

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// TenantHeader carries the tenant every /api request is scoped to.
const TenantHeader = "X-Tenant-ID"

const tenantKey = "tenant_id"

var tenantRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Tenant rejects requests without a well-formed tenant header and stores
// the tenant on the context.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := c.GetHeader(TenantHeader)
		if !tenantRe.MatchString(tenant) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing or invalid " + TenantHeader + " header"})
			return
		}
		c.Set(tenantKey, tenant)
		c.Next()
	}
}

// TenantID returns the tenant stored by Tenant.
func TenantID(c *gin.Context) string {
	return c.GetString(tenantKey)
}
