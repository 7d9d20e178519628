package service

import (
	"context"
	"strings"
	"testing"

	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	params, _ := newTestParams(t, db, testNow)
	svc := NewMeterService(params)
	ctx := context.Background()

	created, err := svc.Create(ctx, waterdomain.CreateMeterRequest{ApartmentID: 7, MeterNumber: " WM-007 "})
	require.NoError(t, err)
	require.NotZero(t, created.WaterMeterID)

	id := formatID(created.WaterMeterID)
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ApartmentID)
	assert.Equal(t, "WM-007", got.MeterNumber)

	updated, err := svc.Update(ctx, waterdomain.UpdateMeterRequest{ID: id, MeterNumber: strPtr("WM-008")})
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.ApartmentID)
	assert.Equal(t, "WM-008", updated.MeterNumber)

	updated, err = svc.Update(ctx, waterdomain.UpdateMeterRequest{ID: id, ApartmentID: int64Ptr(9)})
	require.NoError(t, err)
	assert.Equal(t, int64(9), updated.ApartmentID)
	assert.Equal(t, "WM-008", updated.MeterNumber)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, waterdomain.ErrMeterNotFound)
}

func TestMeterValidation(t *testing.T) {
	db := setupTestDB(t)
	params, _ := newTestParams(t, db, testNow)
	svc := NewMeterService(params)
	ctx := context.Background()

	_, err := svc.Create(ctx, waterdomain.CreateMeterRequest{MeterNumber: "WM-1"})
	assert.ErrorIs(t, err, waterdomain.ErrMeterFieldsRequired)

	_, err = svc.Create(ctx, waterdomain.CreateMeterRequest{ApartmentID: 1, MeterNumber: strings.Repeat("9", 21)})
	assert.ErrorIs(t, err, waterdomain.ErrMeterNumberTooLong)

	_, err = svc.Create(ctx, waterdomain.CreateMeterRequest{ApartmentID: 1, MeterNumber: strings.Repeat("9", 20)})
	assert.NoError(t, err)

	// length is counted in characters, not bytes
	_, err = svc.Create(ctx, waterdomain.CreateMeterRequest{ApartmentID: 1, MeterNumber: strings.Repeat("é", 12)})
	assert.NoError(t, err)
	_, err = svc.Create(ctx, waterdomain.CreateMeterRequest{ApartmentID: 1, MeterNumber: strings.Repeat("é", 21)})
	assert.ErrorIs(t, err, waterdomain.ErrMeterNumberTooLong)
	_, err = svc.Update(ctx, waterdomain.UpdateMeterRequest{ID: "1", MeterNumber: strPtr(strings.Repeat("水", 20))})
	assert.NoError(t, err)

	_, err = svc.Get(ctx, "zero")
	assert.ErrorIs(t, err, waterdomain.ErrInvalidID)

	_, err = svc.Update(ctx, waterdomain.UpdateMeterRequest{ID: "404", MeterNumber: strPtr("x")})
	assert.ErrorIs(t, err, waterdomain.ErrMeterNotFound)

	_, err = svc.Update(ctx, waterdomain.UpdateMeterRequest{ID: "404"})
	assert.ErrorIs(t, err, waterdomain.ErrMeterNotFound, "existence is checked before the empty update rule")

	_, err = svc.Update(ctx, waterdomain.UpdateMeterRequest{ID: "1"})
	assert.ErrorIs(t, err, waterdomain.ErrNoFieldsToUpdate)

	assert.ErrorIs(t, svc.Delete(ctx, "404"), waterdomain.ErrMeterNotFound)
}
