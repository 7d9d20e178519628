package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/propertydesk/internal/apartment"
	"github.com/smallbiznis/propertydesk/internal/clock"
	"github.com/smallbiznis/propertydesk/internal/config"
	"github.com/smallbiznis/propertydesk/internal/dashboard"
	"github.com/smallbiznis/propertydesk/internal/invoice"
	"github.com/smallbiznis/propertydesk/internal/migration"
	"github.com/smallbiznis/propertydesk/internal/observability"
	"github.com/smallbiznis/propertydesk/internal/payment"
	"github.com/smallbiznis/propertydesk/internal/property"
	"github.com/smallbiznis/propertydesk/internal/providers"
	"github.com/smallbiznis/propertydesk/internal/server"
	"github.com/smallbiznis/propertydesk/internal/water"
	"github.com/smallbiznis/propertydesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		providers.Module,

		// Functional Domains
		property.Module,
		apartment.Module,
		payment.Module,
		invoice.Module,
		water.Module,
		dashboard.Module,

		server.Module,
	)
	app.Run()
}

// RegisterSnowflake provides the node that stamps bulk reading batches.
func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
