package cart

import "testing"

func TestCartAddAccumulates(t *testing.T) {
	c := Cart{}
	c.Add(7, 2)
	c.Add(7, 3)

	if got := c["7"]; got != 5 {
		t.Errorf("quantity = %d, want 5", got)
	}
	if got := c.TotalItems(); got != 5 {
		t.Errorf("TotalItems() = %d, want 5", got)
	}
}

func TestCartAddFloorsAtOne(t *testing.T) {
	c := Cart{}
	c.Add(1, 0)
	if c["1"] != 1 {
		t.Errorf("zero qty added %d units, want 1", c["1"])
	}
	c.Add(2, -5)
	if c["2"] != 1 {
		t.Errorf("negative qty added %d units, want 1", c["2"])
	}
}

func TestCartRemoveIdempotent(t *testing.T) {
	c := Cart{"3": 2}
	c.Remove(3)
	c.Remove(3)
	c.Remove(99)

	if len(c) != 0 {
		t.Errorf("cart not empty after removals: %v", c)
	}
	if c.TotalItems() != 0 {
		t.Errorf("TotalItems() = %d, want 0", c.TotalItems())
	}
}

func TestCartClone(t *testing.T) {
	c := Cart{"1": 2}
	clone := c.Clone()
	clone.Add(1, 1)

	if c["1"] != 2 {
		t.Errorf("clone mutation leaked into original: %v", c)
	}
}

func TestFavoritesToggleInverse(t *testing.T) {
	f := Favorites{}

	if action := f.Toggle(5); action != ActionAdded {
		t.Errorf("first toggle = %q, want %q", action, ActionAdded)
	}
	if !f.Has(5) {
		t.Error("5 not marked after toggle")
	}
	if action := f.Toggle(5); action != ActionRemoved {
		t.Errorf("second toggle = %q, want %q", action, ActionRemoved)
	}
	if f.Has(5) || len(f.IDs()) != 0 {
		t.Errorf("favorites not restored to empty: %v", f.IDs())
	}
}
