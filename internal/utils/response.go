package utils

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, data gin.H) {
	c.JSON(200, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   msg,
	})
}

// NoCache marks a response as uncacheable. Status polling breaks badly when
// a proxy serves a stale job state.
func NoCache(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}
