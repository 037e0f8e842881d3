package domain

import (
	"fmt"
	"strings"
)

// ReferenceError reports an object that names another object which is not declared.
type ReferenceError struct {
	Kind    string
	Name    string
	RefKind string
	Ref     string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %q references undeclared %s %q", e.Kind, e.Name, e.RefKind, e.Ref)
}

// TypeError reports a value type or field dtype outside the supported enumeration.
type TypeError struct {
	Kind  string
	Name  string
	Field string
	Type  string
}

func (e *TypeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %q field %q has unsupported type %s", e.Kind, e.Name, e.Field, e.Type)
	}
	return fmt.Sprintf("%s %q has unsupported type %s", e.Kind, e.Name, e.Type)
}

// DuplicateNameError reports two different declarations sharing a name within one kind.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q is declared more than once", e.Kind, e.Name)
}

// ValidationError collects malformed attributes of one declaration.
type ValidationError struct {
	Kind    string
	Name    string
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q is invalid: %s", e.Kind, e.Name, strings.Join(e.Reasons, "; "))
}
