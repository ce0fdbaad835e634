package errors

import (
	"fmt"
	"strings"

	"github.com/resgen-dev/resgen/internal/resource"
	strutil "github.com/resgen-dev/resgen/internal/util/strings"
)

// Configuration error codes (CFG300-399)
const (
	// ErrInvalidConfig indicates an option outside its enumerated values
	ErrInvalidConfig ErrorCode = "CFG300"
)

// NewInvalidConfig creates a CFG300 error
func NewInvalidConfig(field, value string, allowed []string) *ResgenError {
	err := newError(
		ErrInvalidConfig,
		"invalid_config",
		CategoryConfig,
		fmt.Sprintf("invalid %s %q", field, value),
		resource.SourceLocation{},
	)
	if len(allowed) > 0 {
		suggestion := "Allowed values: " + strings.Join(allowed, ", ")
		if value != "" {
			if match, ok := strutil.Closest(value, allowed, 2); ok {
				suggestion = fmt.Sprintf("Did you mean %q? %s", match, suggestion)
			}
		}
		err = err.WithSuggestion(suggestion)
	}
	return err
}
