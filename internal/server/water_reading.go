package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
)

func (s *Server) ListWaterReadings(c *gin.Context) {
	resp, err := s.readingSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (s *Server) GetWaterReadingByID(c *gin.Context) {
	resp, err := s.readingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (s *Server) CreateWaterReading(c *gin.Context) {
	var req waterdomain.ReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, waterdomain.ErrReadingFieldsMissing)
		return
	}

	resp, err := s.readingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": resp})
}

func (s *Server) UpdateWaterReading(c *gin.Context) {
	var req waterdomain.ReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, waterdomain.ErrReadingFieldsMissing)
		return
	}

	resp, err := s.readingSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (s *Server) DeleteWaterReading(c *gin.Context) {
	if err := s.readingSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Water reading deleted successfully"})
}

// BulkCreateWaterReadings inserts the whole array in one transaction. Any
// invalid item rejects the batch before the store is touched.
func (s *Server) BulkCreateWaterReadings(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		AbortWithError(c, waterdomain.ErrEmptyBatch)
		return
	}

	var reqs []waterdomain.ReadingRequest
	if err := binding.JSON.BindBody(raw, &reqs); err != nil {
		// an array whose elements do not decode is a bad item, not a bad batch
		if isJSONArray(raw) {
			AbortWithError(c, waterdomain.ErrInvalidBatchItem)
			return
		}
		AbortWithError(c, waterdomain.ErrEmptyBatch)
		return
	}

	resp, err := s.readingSvc.BulkCreate(c.Request.Context(), reqs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("batch_id", resp.BatchID)
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"batch_id": resp.BatchID,
		"data":     resp.Readings,
	})
}

func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
