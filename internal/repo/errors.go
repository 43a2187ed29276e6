package repo

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is the base error for every missing document.
var ErrNotFound = errors.New("not found")

var (
	// ErrCategoryNotFound is returned when a category is not found in the repository.
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	// ErrOrderNotFound is returned when an order is not found in the repository.
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)

	// ErrInvalidID is returned when a stored identifier cannot be decoded.
	ErrInvalidID = errors.New("invalid id format")

	// ErrUnsupportedLocation is returned when daily sales are requested in a zone the store cannot name.
	ErrUnsupportedLocation = errors.New("unsupported time zone")
)

const queryTimeout = 3 * time.Second
