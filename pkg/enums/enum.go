// Package enums holds the closed string sets persisted on models and sent over the API.
package enums

import (
	"fmt"
	"slices"
)

// parse matches value exactly against known; label names the set in the error.
func parse[T ~string](value string, known []T, label string) (T, error) {
	if i := slices.Index(known, T(value)); i >= 0 {
		return known[i], nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", label, value)
}
