package apartment

import (
	"github.com/smallbiznis/propertydesk/internal/apartment/repository"
	"github.com/smallbiznis/propertydesk/internal/apartment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("apartment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
