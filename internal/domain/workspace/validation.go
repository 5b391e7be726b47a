package workspace

import (
	"fmt"
	"strings"
)

// ValidateName rejects names the backend cannot store as a path segment.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.ContainsAny(trimmed, `/\`) {
		return fmt.Errorf("%w: name must not contain path separators", ErrInvalidInput)
	}
	if trimmed == "." || trimmed == ".." {
		return fmt.Errorf("%w: invalid name %q", ErrInvalidInput, trimmed)
	}
	return nil
}

// ValidateKind checks that kind is one of file, folder or project.
func ValidateKind(kind Kind) error {
	switch kind {
	case KindFile, KindFolder, KindProject:
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
}
