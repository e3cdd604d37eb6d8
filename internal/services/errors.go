package services

import (
	"errors"
	"fmt"
	"strings"
)

// Resource names used in domain errors.
const (
	ResourceCategory    = "category"
	ResourceTransaction = "transaction"
	ResourceExport      = "export"
	ResourceUser        = "user"
)

// ErrMissingID is a contract violation: a caller asked to replace a resource
// without naming it. It signals a programming error, not bad client input.
var ErrMissingID = errors.New("contract violation: resource id is required")

// ErrExportsDisabled is returned when no object storage backend is configured.
var ErrExportsDisabled = errors.New("exports are not enabled")

// NotFoundError reports that the referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ForbiddenError reports that the resource exists but belongs to another user.
type ForbiddenError struct {
	Resource string
	ID       string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s belongs to another user", e.Resource)
}

// Violation is a single failed input constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated constraint of an input.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("'%s' %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the names of the violated fields in reporting order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}
