package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	apartmentdomain "github.com/smallbiznis/propertydesk/internal/apartment/domain"
	"github.com/smallbiznis/propertydesk/internal/clock"
	"github.com/smallbiznis/propertydesk/internal/config"
	dashboarddomain "github.com/smallbiznis/propertydesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/propertydesk/internal/invoice/domain"
	"github.com/smallbiznis/propertydesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/propertydesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/propertydesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/propertydesk/internal/observability/tracing"
	paymentdomain "github.com/smallbiznis/propertydesk/internal/payment/domain"
	propertydomain "github.com/smallbiznis/propertydesk/internal/property/domain"
	"github.com/smallbiznis/propertydesk/internal/providers/pdf"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	clock        clock.Clock
	propertySvc  propertydomain.Service
	apartmentSvc apartmentdomain.Service
	paymentSvc   paymentdomain.Service
	invoiceSvc   invoicedomain.Service
	dashboardSvc dashboarddomain.Service
	meterSvc     waterdomain.MeterService
	readingSvc   waterdomain.ReadingService
	usageSvc     waterdomain.UsageService
	reportSvc    waterdomain.ReportService
	pdf          pdf.Provider
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Clock        clock.Clock
	PropertySvc  propertydomain.Service
	ApartmentSvc apartmentdomain.Service
	PaymentSvc   paymentdomain.Service
	InvoiceSvc   invoicedomain.Service
	DashboardSvc dashboarddomain.Service
	MeterSvc     waterdomain.MeterService
	ReadingSvc   waterdomain.ReadingService
	UsageSvc     waterdomain.UsageService
	ReportSvc    waterdomain.ReportService
	PDF          pdf.Provider
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		clock:        p.Clock,
		propertySvc:  p.PropertySvc,
		apartmentSvc: p.ApartmentSvc,
		paymentSvc:   p.PaymentSvc,
		invoiceSvc:   p.InvoiceSvc,
		dashboardSvc: p.DashboardSvc,
		meterSvc:     p.MeterSvc,
		readingSvc:   p.ReadingSvc,
		usageSvc:     p.UsageSvc,
		reportSvc:    p.ReportSvc,
		pdf:          p.PDF,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Properties --------
	api.GET("/properties", s.ListProperties)
	api.GET("/properties/:id", s.GetPropertyByID)

	// -------- Apartments --------
	api.GET("/apartments", s.ListApartments)
	api.GET("/apartments/count", s.CountApartments)
	api.GET("/apartments/revenue/monthly", s.GetApartmentRevenueMonthly)
	api.GET("/apartments/:id", s.GetApartmentByID)

	// -------- Water usage --------
	api.GET("/water/consumption", s.GetWaterConsumption)
	api.GET("/water/usage/monthly", s.GetMonthlyWaterUsage)
	api.GET("/water/usage/meter-monthly", s.GetMeterMonthlyWaterUsage)

	// -------- Water meters --------
	meters := api.Group("/water/meters", LegacyErrorBody())
	{
		meters.GET("", s.ListWaterMeters)
		meters.POST("", s.CreateWaterMeter)
		meters.GET("/:id", s.GetWaterMeterByID)
		meters.PUT("/:id", s.UpdateWaterMeter)
		meters.DELETE("/:id", s.DeleteWaterMeter)
	}

	// -------- Water readings --------
	api.GET("/water/readings", s.ListWaterReadings)
	api.POST("/water/readings", s.CreateWaterReading)
	api.POST("/water/readings/bulk", s.BulkCreateWaterReadings)
	api.GET("/water/readings/:id", s.GetWaterReadingByID)
	api.PUT("/water/readings/:id", s.UpdateWaterReading)
	api.DELETE("/water/readings/:id", s.DeleteWaterReading)

	// -------- Water report --------
	api.GET("/water/report", s.GetWaterReport)
	api.GET("/water/report/pdf", s.GetWaterReportPDF)

	// -------- Payments --------
	api.GET("/payments", s.ListPayments)
	api.POST("/payments", s.CreatePayment)
	api.GET("/payments/revenue", s.GetRevenue)
	api.GET("/payments/revenue/monthly", s.GetMonthlyRevenue)
	api.GET("/payments/overdue", s.GetOverduePayments)
	api.GET("/payments/:id", s.GetPaymentByID)
	api.DELETE("/payments/:id", s.DeletePayment)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.PATCH("/invoices", s.UpdateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)

	invoicePayments := api.Group("/invoice-payments", LegacyErrorBody())
	{
		invoicePayments.POST("", s.CreateInvoicePayment)
		invoicePayments.GET("/:id", s.GetInvoicePaymentByID)
	}

	// -------- Dashboard --------
	api.GET("/tenancies/active/count", s.CountActiveTenancies)
	api.GET("/tenants/new", s.CountNewTenants)
	api.GET("/tenants/moves", s.GetTenantMoves)
	api.GET("/maintenance/requests", s.GetMaintenanceRequests)
	api.GET("/dashboard/metrics", s.GetDashboardMetrics)
}
