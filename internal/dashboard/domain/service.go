package domain

import "context"

type Service interface {
	ActiveTenancies(ctx context.Context) (int64, error)
	NewTenants(ctx context.Context) (int64, error)
	Moves(ctx context.Context) (*Moves, error)
	Maintenance(ctx context.Context) (*MaintenanceCounts, error)
	Metrics(ctx context.Context) (*Metrics, error)
}
