package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
)

func (s *Server) ListWaterMeters(c *gin.Context) {
	resp, err := s.meterSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetWaterMeterByID(c *gin.Context) {
	resp, err := s.meterSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateWaterMeter(c *gin.Context) {
	var req waterdomain.CreateMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, waterdomain.ErrMeterFieldsRequired)
		return
	}

	resp, err := s.meterSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateWaterMeter(c *gin.Context) {
	id := c.Param("id")
	if _, err := waterdomain.ParseID(id); err != nil {
		AbortWithError(c, err)
		return
	}

	var req waterdomain.UpdateMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = id

	resp, err := s.meterSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteWaterMeter(c *gin.Context) {
	if err := s.meterSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Water meter deleted successfully"})
}
