// Package cart holds the ephemeral per-session shopping state as plain
// value types. Mutations are pure map/set operations; persisting the
// result back into the session store is the caller's job.
package cart

import "strconv"

// Cart maps a product id (string key, matching the session encoding) to
// the desired quantity.
type Cart map[string]int

// Add merges qty units of pid into the cart, summing with any existing
// quantity. Requests below one unit still add one unit.
func (c Cart) Add(pid int64, qty int) {
	if qty < 1 {
		qty = 1
	}
	key := strconv.FormatInt(pid, 10)
	c[key] += qty
}

// Remove drops pid from the cart. Removing an absent id is a no-op.
func (c Cart) Remove(pid int64) {
	delete(c, strconv.FormatInt(pid, 10))
}

// TotalItems returns the summed quantity across all lines.
func (c Cart) TotalItems() int {
	total := 0
	for _, qty := range c {
		total += qty
	}
	return total
}

// Clone returns an independent copy of the cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Favorites is the set of product ids the user marked, keyed by the
// string form of the id.
type Favorites map[string]bool

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// Toggle flips membership of pid and reports which way it went.
func (f Favorites) Toggle(pid int64) string {
	key := strconv.FormatInt(pid, 10)
	if f[key] {
		delete(f, key)
		return ActionRemoved
	}
	f[key] = true
	return ActionAdded
}

// Has reports whether pid is marked.
func (f Favorites) Has(pid int64) bool {
	return f[strconv.FormatInt(pid, 10)]
}

// IDs returns the member ids in no particular order.
func (f Favorites) IDs() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	return out
}
