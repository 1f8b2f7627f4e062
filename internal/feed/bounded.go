package feed

// Collection capacities. Overflow always evicts the oldest (tail) entries.
const (
	// TransactionFeedCapacity bounds the live transaction feed.
	TransactionFeedCapacity = 50

	// StatusHistoryCapacity bounds the transaction status-change history.
	StatusHistoryCapacity = 100

	// NotificationCapacity bounds the purchase-approval notification list.
	NotificationCapacity = 50

	// AlertCapacity bounds the fraud-alert and dispute collections.
	AlertCapacity = 100
)

// upsertFront returns a new list with item either replacing the existing
// entry that shares its key (position preserved) or prepended as the newest
// entry. The result never exceeds capacity; excess tail entries are evicted.
// The input list is never mutated.
func upsertFront[T any](list []T, item T, key func(T) string, capacity int) []T {
	id := key(item)
	if id != "" {
		for i := range list {
			if key(list[i]) == id {
				out := make([]T, len(list))
				copy(out, list)
				out[i] = item
				return out
			}
		}
	}

	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	out = append(out, list...)
	if capacity > 0 && len(out) > capacity {
		out = out[:capacity]
	}
	return out
}

// replaceByKey returns a new list with the entry matching key replaced, and
// reports whether a match was found. Position is preserved; a miss returns
// the input list unchanged.
func replaceByKey[T any](list []T, id string, key func(T) string, item T) ([]T, bool) {
	for i := range list {
		if key(list[i]) == id {
			out := make([]T, len(list))
			copy(out, list)
			out[i] = item
			return out, true
		}
	}
	return list, false
}

// removeByKey returns a new list without the entry matching key. A miss
// returns the input list unchanged.
func removeByKey[T any](list []T, id string, key func(T) string) []T {
	for i := range list {
		if key(list[i]) == id {
			out := make([]T, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			return out
		}
	}
	return list
}

// filterKeep returns a new list containing only entries for which keep is
// true, preserving order.
func filterKeep[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
