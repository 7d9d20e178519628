package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListProperties(c *gin.Context) {
	resp, err := s.propertySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetPropertyByID(c *gin.Context) {
	resp, err := s.propertySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
