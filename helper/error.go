package helper

import "fmt"

// NewError wraps err with the operation that failed so callers can trace an
// error back through the layer it crossed.
func NewError(operation string, err error) error {
	return fmt.Errorf("error in %v: %w", operation, err)
}
