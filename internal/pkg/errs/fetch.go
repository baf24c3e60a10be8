package errs

import (
	"errors"
	"fmt"
)

var (
	ErrEntityLeaked             = errors.New("entity leaked into response shape")
	ErrPaginationIncompatible   = errors.New("pagination incompatible with this fetch strategy")
	ErrQueryDescriptorIsInvalid = errors.New("query descriptor is invalid")
	ErrReferenceIsUnresolved    = errors.New("reference is unresolved")
)

// EntityLeakedError reports an entity or an unloaded reference found where
// only DTO values are allowed. Path locates the offending field.
type EntityLeakedError struct {
	Path     string
	TypeName string
	Cause    error
}

func NewEntityLeakedError(path, typeName string) *EntityLeakedError {
	return &EntityLeakedError{Path: path, TypeName: typeName}
}

func NewEntityLeakedErrorWithCause(path, typeName string, cause error) *EntityLeakedError {
	return &EntityLeakedError{Path: path, TypeName: typeName, Cause: cause}
}

func (e *EntityLeakedError) Error() string {
	msg := fmt.Sprintf("%s: %s at %s", ErrEntityLeaked, e.TypeName, e.Path)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the classification and the cause, if any.
func (e *EntityLeakedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrEntityLeaked}
	}
	return []error{ErrEntityLeaked, e.Cause}
}

// PaginationIncompatibleError is a request validation failure: limit/offset
// was asked for together with a strategy whose rows multiply per root.
type PaginationIncompatibleError struct {
	Strategy string
}

func NewPaginationIncompatibleError(strategy string) *PaginationIncompatibleError {
	return &PaginationIncompatibleError{Strategy: strategy}
}

func (e *PaginationIncompatibleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPaginationIncompatible, e.Strategy)
}

func (e *PaginationIncompatibleError) Unwrap() error {
	return ErrPaginationIncompatible
}

// QueryDescriptorIsInvalidError is a programming error in how a store query
// was assembled. It is raised when the descriptor is built, never by the store.
type QueryDescriptorIsInvalidError struct {
	Reason string
}

func NewQueryDescriptorIsInvalidError(reason string) *QueryDescriptorIsInvalidError {
	return &QueryDescriptorIsInvalidError{Reason: reason}
}

func (e *QueryDescriptorIsInvalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrQueryDescriptorIsInvalid, e.Reason)
}

func (e *QueryDescriptorIsInvalidError) Unwrap() error {
	return ErrQueryDescriptorIsInvalid
}

// ReferenceIsUnresolvedError reports a read of an association that was never loaded.
type ReferenceIsUnresolvedError struct {
	Association string
	ID          int64
}

func NewReferenceIsUnresolvedError(association string, id int64) *ReferenceIsUnresolvedError {
	return &ReferenceIsUnresolvedError{Association: association, ID: id}
}

func (e *ReferenceIsUnresolvedError) Error() string {
	return fmt.Sprintf("%s: %s(%d)", ErrReferenceIsUnresolved, e.Association, e.ID)
}

func (e *ReferenceIsUnresolvedError) Unwrap() error {
	return ErrReferenceIsUnresolved
}
