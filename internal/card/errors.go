package card

import "errors"

var (
	ErrCardNotFound        = errors.New("card not found")
	ErrConcurrencyConflict = errors.New("card was modified concurrently")
)
