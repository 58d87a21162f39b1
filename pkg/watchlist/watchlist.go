// Package watchlist provides an ordered collection that remembers the
// snapshot it was built from and classifies members as kept, added, or
// removed.
//
// Membership is decided by an injected identity predicate, not value
// equality: two items with the same identity are "the same" member even when
// their fields differ. Repository implementations use the Added/Removed/Items
// views to turn an aggregate edit into row inserts, deletes, and updates
// without losing identity.
package watchlist

// List tracks an ordered set of items against the baseline captured at
// construction time.
type List[T any] struct {
	baseline []T
	current  []T
	same     func(a, b T) bool
}

// New builds a list whose baseline and current contents are both initial.
// The same predicate decides identity for all later operations.
func New[T any](same func(a, b T) bool, initial ...T) *List[T] {
	l := &List[T]{same: same}
	l.baseline = append(l.baseline, initial...)
	l.current = append(l.current, initial...)
	return l
}

// Items returns the current members in insertion order. The returned slice is
// shared with the list; callers must not modify it.
func (l *List[T]) Items() []T { return l.current }

// Len reports the number of current members.
func (l *List[T]) Len() int { return len(l.current) }

// Add appends item to the current set. Adding an item whose identity is
// already present is a no-op, so re-adding unchanged members during a
// reconciliation pass never duplicates them.
func (l *List[T]) Add(item T) {
	if l.containsCurrent(item) {
		return
	}
	l.current = append(l.current, item)
}

// Remove deletes the first current member sharing item's identity. Removing
// an unknown item is a no-op.
func (l *List[T]) Remove(item T) {
	for i, existing := range l.current {
		if l.same(existing, item) {
			l.current = append(l.current[:i], l.current[i+1:]...)
			return
		}
	}
}

// Added returns the current members whose identity is absent from the
// baseline. An item replacing a baseline member of the same identity does not
// count as added.
func (l *List[T]) Added() []T {
	var added []T
	for _, item := range l.current {
		if !l.containsBaseline(item) {
			added = append(added, item)
		}
	}
	return added
}

// Removed returns the baseline members whose identity is absent from the
// current set. Items that never belonged to the baseline do not appear here
// even after Remove.
func (l *List[T]) Removed() []T {
	var removed []T
	for _, item := range l.baseline {
		if !l.containsCurrent(item) {
			removed = append(removed, item)
		}
	}
	return removed
}

func (l *List[T]) containsCurrent(item T) bool {
	for _, existing := range l.current {
		if l.same(existing, item) {
			return true
		}
	}
	return false
}

func (l *List[T]) containsBaseline(item T) bool {
	for _, existing := range l.baseline {
		if l.same(existing, item) {
			return true
		}
	}
	return false
}
