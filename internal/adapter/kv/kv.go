// Package kv provides local key-value backends for the progress store.
//
// Every backend stores opaque byte values under string keys and reports a
// missing key as domain.ErrNotFound. Remove of a missing key is not an error.
package kv

import (
	"fmt"

	"github.com/heartmarshall/lexipath/internal/domain"
)

func notFound(key string) error {
	return fmt.Errorf("kv key %q: %w", key, domain.ErrNotFound)
}
