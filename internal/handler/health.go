package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LivenessCheck reports that the process is up.
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"status": "healthy"},
	})
}

// ReadinessChecker reports whether the upstream dependencies are usable.
type ReadinessChecker func(c *gin.Context) error

// ReadinessCheck probes the configured dependencies and reports
// unavailable when any of them fails.
func ReadinessCheck(checks ...ReadinessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, check := range checks {
			if err := check(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "error",
					"data":   gin.H{"status": "unavailable", "reason": err.Error()},
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   gin.H{"status": "ready"},
		})
	}
}
