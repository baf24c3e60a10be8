// Package graph reads the order graph Order -> Member, Delivery,
// OrderItem -> Item from an OrderGraphStore using one of the fetch
// strategies, and hands the raw result to the projection package.
//
// The reader never shapes responses and never loads implicitly: every
// round trip is a visible call on the store, so the cost of a strategy can
// be read off its code.
package graph
