package market

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoData       = errors.New("no data")
	ErrNotFound     = errors.New("not found")
)
