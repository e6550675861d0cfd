package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type InfoHandler struct {
	service string
	version string
}

func NewInfoHandler(service, version string) *InfoHandler {
	return &InfoHandler{service: service, version: version}
}

// Info serves the root endpoint with basic service metadata.
func (h *InfoHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceInfoResponse{
		Service: h.service,
		Version: h.version,
		Status:  "running",
		Health:  "/health",
	})
}
