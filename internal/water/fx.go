package water

import (
	"github.com/smallbiznis/propertydesk/internal/water/repository"
	"github.com/smallbiznis/propertydesk/internal/water/service"
	"go.uber.org/fx"
)

var Module = fx.Module("water.service",
	fx.Provide(repository.Provide),
	fx.Provide(
		service.NewMeterService,
		service.NewReadingService,
		service.NewUsageService,
		service.NewReportService,
	),
)
