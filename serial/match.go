package serial

// Predicate reports whether an element matches a filter.
type Predicate[E Serializable] func(E) bool

// Match selects how multiple predicates combine when filtering a
// collection.
type Match int

const (
	// MatchAny retains elements matching at least one predicate.
	MatchAny Match = iota
	// MatchAll retains elements matching every predicate.
	MatchAll
)

func matchElement[E Serializable](e E, filters []Predicate[E], match Match) bool {
	if match == MatchAll {
		for _, f := range filters {
			if !f(e) {
				return false
			}
		}
		return true
	}
	for _, f := range filters {
		if f(e) {
			return true
		}
	}
	return false
}

// sortsBefore implements the shared ordering rule for SortBy on both
// collection kinds: elements whose field value is empty always sort last
// regardless of direction, and the sort is stable.
func sortsBefore(vi any, oki bool, vj any, okj bool, descending bool) bool {
	ei := isEmptyValue(vi, oki)
	ej := isEmptyValue(vj, okj)
	if ei || ej {
		return !ei && ej
	}
	cmp := compareValues(vi, vj)
	if descending {
		return cmp > 0
	}
	return cmp < 0
}
