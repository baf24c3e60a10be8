// Package kernel provides the shared building blocks of the shop domain model.
//
// The package includes:
//   - Identity and Entity: the marker every persistent object carries, so the
//     response boundary can recognize entities and refuse them
//   - Ref and Collection: to-one and to-many associations with an explicit
//     unresolved state. Reading an unresolved association is an error, it never
//     triggers a load. Loading is a separate, visible call on the store.
//   - Address: the embedded address value object shared by Member and Delivery
package kernel
