package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListApartments(c *gin.Context) {
	resp, err := s.apartmentSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetApartmentByID(c *gin.Context) {
	resp, err := s.apartmentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CountApartments(c *gin.Context) {
	total, err := s.apartmentSvc.Count(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

// GetApartmentRevenueMonthly returns the bare monthly totals the occupancy
// chart plots.
func (s *Server) GetApartmentRevenueMonthly(c *gin.Context) {
	resp, err := s.paymentSvc.TrailingRevenue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
