package dashboard

import (
	"github.com/smallbiznis/propertydesk/internal/dashboard/repository"
	"github.com/smallbiznis/propertydesk/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
