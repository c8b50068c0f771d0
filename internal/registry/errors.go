package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
)

var (
	ErrRegistry = errors.New("invalid registry")
)

// Returned when a dimension name is not in the registry.
type LookupError struct {
	Dimension string   // "release", "vendor" or "arch".
	Name      string   // Requested name.
	Valid     []string // Names the registry knows, sorted.
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("invalid %s: %s, select one of %s", e.Dimension, e.Name, strings.Join(e.Valid, ", "))
}

// Classifies the error as not found.
func (e *LookupError) Unwrap() error {
	return errdefs.ErrNotFound
}
