// Package fetch names the ways the order graph can be read and the request
// parameters that shape a read.
//
// A Strategy is a performance choice, never a semantic one: every strategy
// returns the same roots with the same ordered children. What differs is the
// number of store round trips, the rows transferred, and whether limit/offset
// can be applied at all.
//
//	version  strategy           round trips   rows multiply  paginable
//	v1       NaiveEntity        1 + 2N + ...  no             yes
//	v2       DTOPostMap         1 + 2N + ...  no             yes
//	v3       FetchJoin          1             yes            no
//	v3.1     SplitBatched       2             no             yes (always paged)
//	v4       ProjectionLoop     1 + N         no             yes
//	v5       ProjectionBatched  2             no             yes
//	v6       FlatProjection     1             yes            no
package fetch
