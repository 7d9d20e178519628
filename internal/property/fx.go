package property

import (
	"github.com/smallbiznis/propertydesk/internal/property/repository"
	"github.com/smallbiznis/propertydesk/internal/property/service"
	"go.uber.org/fx"
)

var Module = fx.Module("property.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
