package service

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/propertydesk/internal/clock"
	"github.com/smallbiznis/propertydesk/internal/config"
	"github.com/smallbiznis/propertydesk/internal/observability/metrics"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      waterdomain.Repository
	Clock     clock.Clock
	Reporting *config.ReportingConfigHolder
	Metrics   *metrics.WaterMetrics `optional:"true"`
}
