package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

type Service interface {
	List(ctx context.Context) ([]Property, error)
	GetByID(ctx context.Context, id string) (*Property, error)
}

var (
	ErrInvalidID = errors.New("invalid_property_id")
	ErrNotFound  = errors.New("property_not_found")
)

func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
