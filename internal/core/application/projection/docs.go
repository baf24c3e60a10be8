// Package projection turns what a read strategy produced into the response
// shape.
//
// The projector is the only place that knows the wire shape. It dedupes
// roots repeated by a to-many fetch join, merges their children in first-seen
// order, groups flat rows by root id, and resolves lazy roots one at a time.
// A result envelope is only built after checking that no entity or entity
// reference is reachable from it.
package projection
