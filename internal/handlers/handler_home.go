package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHome godoc
// @Summary API root
// @Produce plain
// @Success 200 {string} string "Notely API"
// @Router / [get]
func GetHome(c *gin.Context) {
	c.String(http.StatusOK, "Notely API")
}
