//go:build !darwin

package permissions

import "github.com/rs/zerolog"

// Ensure is a no-op on platforms without a permission broker.
func Ensure(log zerolog.Logger) error {
	return nil
}
