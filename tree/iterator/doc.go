// Package iterator provides in-order iterators over tree.Node.
//
// InOrder climbs Parent back-references to find each successor, so it
// is only as correct as those links. InOrderStack never reads Parent.
// Running both over the same tree and comparing the sequences
// catches a stale back-reference.
package iterator

// Iterator describes the common interface for all
// iterators in this package.
// Next must always be called before Item, even for
// the first round of iteration.
// If Next returns false, Item must not be called.
//
// The usual usage of an Iterator is like this:
//
//	i := iterator.NewInOrder(root)
//	for i.Next() {
//		k := i.Item()
//		... do stuff with k, or break ...
//	}
type Iterator[T any] interface {
	Next() bool
	Item() T
}

// Collect drains i into a slice.
func Collect[T any](i Iterator[T]) []T {
	var out []T
	for i.Next() {
		out = append(out, i.Item())
	}
	return out
}
