package types

import (
	"errors"
	"fmt"
)

var (
	ErrDataNotFound  = errors.New("data not found")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// StoreError wraps a failure on the ledger file write path. Read paths
// never surface errors; they degrade to an empty ledger instead.
type StoreError struct {
	Path string
	Err  error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("failed to persist ledger to %s: %v", e.Path, e.Err)
}

func (e StoreError) Unwrap() error {
	return e.Err
}
