package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) CountActiveTenancies(c *gin.Context) {
	total, err := s.dashboardSvc.ActiveTenancies(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (s *Server) CountNewTenants(c *gin.Context) {
	total, err := s.dashboardSvc.NewTenants(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (s *Server) GetTenantMoves(c *gin.Context) {
	resp, err := s.dashboardSvc.Moves(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetMaintenanceRequests(c *gin.Context) {
	resp, err := s.dashboardSvc.Maintenance(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetDashboardMetrics(c *gin.Context) {
	resp, err := s.dashboardSvc.Metrics(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
