package catalog

import (
	"fmt"

	"github.com/rogerio-castellano/catalog-admin/internal/repo"
)

var (
	// ErrProductsNotFound is returned when a category references products that do not exist.
	ErrProductsNotFound = fmt.Errorf("one or more products %w", repo.ErrNotFound)
	// ErrCategoriesNotFound is returned when a product references categories that do not exist.
	ErrCategoriesNotFound = fmt.Errorf("one or more categories %w", repo.ErrNotFound)
)

// LinkError reports a cross-reference update that failed after the primary write succeeded.
// The primary document is persisted; the other side may lack its back-reference.
type LinkError struct {
	Op  string
	Err error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("cross-reference %s failed: %v", e.Op, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}
