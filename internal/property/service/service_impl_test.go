package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/propertydesk/internal/migration"
	propertydomain "github.com/smallbiznis/propertydesk/internal/property/domain"
	"github.com/smallbiznis/propertydesk/internal/property/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) propertydomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migration.ApplySQLiteSchema(context.Background(), db))

	require.NoError(t, db.Exec(`INSERT INTO properties (property_id, name, address, conservancy_fee) VALUES
		(1, 'Sunrise Court', 'Ngong Road', 1500), (2, 'Lakeview', 'Kisumu', 0)`).Error)

	return New(Params{DB: db, Log: zap.NewNop(), Repo: repository.Provide()})
}

func TestListOrdersByName(t *testing.T) {
	svc := setupService(t)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Lakeview", items[0].Name)
	assert.Equal(t, "Sunrise Court", items[1].Name)
	assert.Equal(t, 1500.0, items[1].ConservancyFee)
}

func TestGetByID(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	item, err := svc.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Ngong Road", item.Address)
	assert.Nil(t, item.Description)

	_, err = svc.GetByID(ctx, "99")
	assert.ErrorIs(t, err, propertydomain.ErrNotFound)

	_, err = svc.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, propertydomain.ErrInvalidID)
}
