package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"scribby/internal/config"
	"scribby/internal/utils"
)

// getConfig and updateConfig serve both stores; the selector indirection
// keeps the route table readable.

func (s *Server) getConfig(store func() *config.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, store().Get())
	}
}

func (s *Server) updateConfig(store func() *config.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update config.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			utils.Error(c, 400, err.Error())
			return
		}

		cfg, err := store().Apply(update)
		if errors.Is(err, config.ErrDefaultModelNotAvailable) {
			current := store().Get()
			utils.Error(c, 400, fmt.Sprintf("Default model must be in the list of available models: %s",
				strings.Join(current.Models, ", ")))
			return
		}
		if err != nil {
			utils.Error(c, 500, "Failed to save configuration")
			return
		}

		c.JSON(200, gin.H{
			"message": "Configuration updated successfully",
			"config":  cfg,
		})
	}
}
