// Package guard provides ConstructorGuard, a marker that lets value objects
// and queries tell a constructed instance apart from its zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero-value guard
// when the caller passes no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be created through
// their constructor. Its zero value fails Validate.
//
// Example usage:
//
//	var ErrPageNotConstructed = errors.New("Page must be created via NewPage")
//
//	type Page struct {
//	    offset int
//	    limit  int
//	    guard  guard.ConstructorGuard
//	}
//
//	func (p Page) Validate() error {
//	    return p.guard.Validate(ErrPageNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard, otherwise validationError,
// or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
