package fetch

import (
	"fmt"

	"shop/internal/pkg/errs"
)

// Strategy selects how the Graph Reader resolves Order -> Member, Delivery,
// OrderItem -> Item.
type Strategy int

const (
	Unknown Strategy = iota

	// NaiveEntity selects roots, then touches every association of every root,
	// loading each one separately.
	NaiveEntity

	// DTOPostMap performs the loads of NaiveEntity while mapping each root
	// into its response shape.
	DTOPostMap

	// FetchJoin joins roots with all to-one and the to-many association in a
	// single query and deduplicates the multiplied roots afterwards.
	FetchJoin

	// SplitBatched fetch-joins the to-one associations and loads the to-many
	// association of the whole page with one grouped lookup.
	SplitBatched

	// ProjectionLoop projects roots straight into rows, then queries the
	// children of each root one by one.
	ProjectionLoop

	// ProjectionBatched projects roots, then queries the children of all roots
	// of the page at once and attaches them by owner id.
	ProjectionBatched

	// FlatProjection projects roots and children as one flat table and groups
	// the rows by root in memory.
	FlatProjection
)

func getVersionStrings() map[Strategy]string {
	//nolint:exhaustive // Unknown has no version
	return map[Strategy]string{
		NaiveEntity:       "v1",
		DTOPostMap:        "v2",
		FetchJoin:         "v3",
		SplitBatched:      "v3.1",
		ProjectionLoop:    "v4",
		ProjectionBatched: "v5",
		FlatProjection:    "v6",
	}
}

// All lists every valid strategy in version order.
func All() []Strategy {
	return []Strategy{NaiveEntity, DTOPostMap, FetchJoin, SplitBatched, ProjectionLoop, ProjectionBatched, FlatProjection}
}

// ParseVersion maps an API version such as "v3.1" to its strategy.
func ParseVersion(version string) (Strategy, error) {
	for s, v := range getVersionStrings() {
		if v == version {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%q is not a known API version", version))
}

// Validate rejects Unknown and out-of-range values.
func (s Strategy) Validate() error {
	if _, ok := getVersionStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("strategy", fmt.Errorf("%d is not a valid strategy", s))
	}
	return nil
}

// Version returns the API version serving this strategy.
func (s Strategy) Version() string {
	if v, ok := getVersionStrings()[s]; ok {
		return v
	}
	return "unknown"
}

func (s Strategy) String() string {
	return s.Version()
}

// MultipliesRows reports whether the strategy reads a to-many join, so that
// one root spans several result rows.
func (s Strategy) MultipliesRows() bool {
	return s == FetchJoin || s == FlatProjection
}

// Paginable reports whether limit/offset may be applied. Limiting a
// multiplied result cuts through roots and returns fewer of them than asked.
func (s Strategy) Paginable() bool {
	return s.Validate() == nil && !s.MultipliesRows()
}

// AlwaysPaged reports whether the strategy requires a page, falling back to
// the default page when the caller gives none.
func (s Strategy) AlwaysPaged() bool {
	return s == SplitBatched
}

// SimpleStrategy selects how the to-one only graph Order -> Member, Delivery
// is read for the simple order listing.
type SimpleStrategy int

const (
	SimpleUnknown SimpleStrategy = iota
	SimpleNaiveEntity
	SimpleDTOPostMap
	SimpleFetchJoin
	SimpleProjection
)

func getSimpleVersionStrings() map[SimpleStrategy]string {
	//nolint:exhaustive // SimpleUnknown has no version
	return map[SimpleStrategy]string{
		SimpleNaiveEntity: "v1",
		SimpleDTOPostMap:  "v2",
		SimpleFetchJoin:   "v3",
		SimpleProjection:  "v4",
	}
}

// AllSimple lists every valid simple strategy in version order.
func AllSimple() []SimpleStrategy {
	return []SimpleStrategy{SimpleNaiveEntity, SimpleDTOPostMap, SimpleFetchJoin, SimpleProjection}
}

// ParseSimpleVersion maps an API version to its simple strategy.
func ParseSimpleVersion(version string) (SimpleStrategy, error) {
	for s, v := range getSimpleVersionStrings() {
		if v == version {
			return s, nil
		}
	}
	return SimpleUnknown, errs.NewValueIsInvalidErrorWithCause(
		"version", fmt.Errorf("%q is not a known simple-orders API version", version))
}

// Validate rejects SimpleUnknown and out-of-range values.
func (s SimpleStrategy) Validate() error {
	if _, ok := getSimpleVersionStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("simple strategy", fmt.Errorf("%d is not a valid strategy", s))
	}
	return nil
}

// Version returns the API version serving this strategy.
func (s SimpleStrategy) Version() string {
	if v, ok := getSimpleVersionStrings()[s]; ok {
		return v
	}
	return "unknown"
}

func (s SimpleStrategy) String() string {
	return "simple-" + s.Version()
}
