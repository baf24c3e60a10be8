package graph

// Group is the rows sharing one root key, in row order.
type Group[K comparable, R any] struct {
	Key  K
	Rows []R
}

// GroupByRoot groups rows by key. Groups keep the order in which their key
// was first seen; rows keep their order within a group.
func GroupByRoot[K comparable, R any](rows []R, key func(R) K) []Group[K, R] {
	index := make(map[K]int)
	groups := make([]Group[K, R], 0)

	for _, row := range rows {
		k := key(row)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, R]{Key: k})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	return groups
}

// IndexByOwner maps each owner key to its rows in row order.
func IndexByOwner[K comparable, R any](rows []R, owner func(R) K) map[K][]R {
	index := make(map[K][]R)
	for _, row := range rows {
		k := owner(row)
		index[k] = append(index[k], row)
	}
	return index
}
