// Package errs provides standardized error types for the shop read API.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its allowed bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - EntityLeakedError: For when an entity crosses the response boundary
//   - PaginationIncompatibleError: For when limit/offset meets a row-multiplying fetch
//   - QueryDescriptorIsInvalidError: For when a store query is assembled incorrectly
//   - ReferenceIsUnresolvedError: For when an association is read before it was loaded
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
package errs
