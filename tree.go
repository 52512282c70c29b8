package fsm

// IsAncestor reports whether a is a proper ancestor of b. A nil a stands for
// Root, which is an ancestor of every inserted state.
//
// For example, with a tree s -> s1 -> s11:
// - IsAncestor(s, s11) is true
// - IsAncestor(s11, s11) is false
func IsAncestor(a, b *State) bool {
	if b == nil || b.machine == nil || a == b {
		return false
	}
	if a == nil {
		return true
	}
	if a.machine != b.machine || a.depth >= b.depth {
		return false
	}
	for parent := b.Parent(); parent != nil; parent = parent.Parent() {
		if parent == a {
			return true
		}
	}
	return false
}

// LCA returns the least common ancestor of a and b, with the same
// conventions as the UML local-transition rules: the LCA of a state and
// itself is its parent, and the LCA of a state and one of its descendants is
// the state itself. A nil result stands for Root.
//
// For example, with a tree s -> {s1 -> s11, s2}:
// - LCA(s1, s2) returns s
// - LCA(s1, s11) returns s1
// - LCA(s1, s1) returns s
// - LCA(s11, s2) returns s
func LCA(a, b *State) *State {
	if a == nil || b == nil || a.machine == nil || a.machine != b.machine {
		return nil
	}
	if a == b {
		return a.Parent()
	}
	for a.depth > b.depth {
		if a.Parent() == b {
			return b
		}
		a = a.Parent()
	}
	for b.depth > a.depth {
		if b.Parent() == a {
			return a
		}
		b = b.Parent()
	}
	for a != b {
		a, b = a.Parent(), b.Parent()
	}
	return a
}
