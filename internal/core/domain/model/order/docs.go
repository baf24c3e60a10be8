// Package order provides the Order aggregate root of the shop read API and its
// OrderItem lines.
//
// The package includes:
//   - Order: root entity with an order date, a status, and three associations
//     (member and delivery to-one, order items to-many)
//   - OrderItem: a priced line referencing one Item
//   - Status: ORDERED or CANCELLED
//
// Associations are restored unresolved and must be loaded explicitly by the
// caller. Reading one that was not loaded fails with ReferenceIsUnresolvedError
// instead of issuing a query behind the caller's back.
package order
