package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. It draws from the package-level
// crypto/rand-backed monotonic entropy source, so concurrent calls within the
// same millisecond still yield distinct, ordered IDs.
func NewULID() string {
	return ulid.Make().String()
}
