package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/propertydesk/internal/providers/pdf"
)

func (s *Server) GetWaterConsumption(c *gin.Context) {
	resp, err := s.usageSvc.Consumption(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (s *Server) GetMonthlyWaterUsage(c *gin.Context) {
	resp, err := s.usageSvc.MonthlySeries(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (s *Server) GetMeterMonthlyWaterUsage(c *gin.Context) {
	resp, err := s.usageSvc.MeterMonthly(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetWaterReport(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := s.reportSvc.Build(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.obsMetrics.RecordReportBuilt(ctx, "json", len(resp.Rows))

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (s *Server) GetWaterReportPDF(c *gin.Context) {
	ctx := c.Request.Context()

	report, err := s.reportSvc.Build(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	now := s.clock.Now()
	doc, err := s.pdf.RenderWaterReport(ctx, report, now)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	body, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.obsMetrics.RecordReportBuilt(ctx, "pdf", len(report.Rows))

	c.Header("Content-Disposition", `attachment; filename="`+pdf.Filename(pdf.ReportTitle, now)+`"`)
	c.Data(http.StatusOK, "application/pdf", body)
}
