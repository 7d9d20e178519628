package domain

import (
	paymentdomain "github.com/smallbiznis/propertydesk/internal/payment/domain"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
)

const (
	MaintenanceStatusPending    = "Pending"
	MaintenanceStatusInProgress = "In Progress"
	MaintenanceStatusCompleted  = "Completed"
	MaintenanceStatusCancelled  = "Cancelled"
)

type StatusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

type MaintenanceCounts struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
}

type Moves struct {
	MoveIns  int64 `json:"moveIns"`
	MoveOuts int64 `json:"moveOuts"`
}

// Metrics is everything the dashboard renders in one response.
type Metrics struct {
	OccupancyRate       float64                          `json:"occupancyRate"`
	TotalApartments     int64                            `json:"totalApartments"`
	ActiveTenancies     int64                            `json:"activeTenancies"`
	TotalRevenue        float64                          `json:"totalRevenue"`
	NewTenants          int64                            `json:"newTenants"`
	MaintenanceRequests MaintenanceCounts                `json:"maintenanceRequests"`
	OverduePayments     int64                            `json:"overduePayments"`
	MoveIns             int64                            `json:"moveIns"`
	MoveOuts            int64                            `json:"moveOuts"`
	WaterConsumption    float64                          `json:"waterConsumption"`
	MonthlyRevenue      []paymentdomain.MonthlyRevenue   `json:"monthlyRevenue"`
	MonthlyWaterUsage   []waterdomain.MonthlyConsumption `json:"monthlyWaterUsage"`
	RevenueTrend        float64                          `json:"revenueTrend"`
	WaterTrend          float64                          `json:"waterTrend"`
}
