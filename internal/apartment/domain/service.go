package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

type Service interface {
	List(ctx context.Context) ([]ApartmentView, error)
	GetByID(ctx context.Context, id string) (*ApartmentView, error)
	Count(ctx context.Context) (int64, error)
}

var (
	ErrInvalidID = errors.New("invalid_apartment_id")
	ErrNotFound  = errors.New("apartment_not_found")
)

func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
