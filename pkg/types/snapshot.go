package types

// InventorySnapshot is a point-in-time set of identifiers already
// satisfied for one backend. It represents state at query time only and
// is not refreshed mid-batch.
type InventorySnapshot struct {
	Kind    BackendKind
	present map[string]struct{}

	// Partial marks snapshots taken after a failed backend query: the
	// present set is empty, so the reconciler re-attempts everything,
	// which is safe but may prompt redundantly.
	Partial bool
}

// NewSnapshot builds a snapshot from the identifiers a backend reported
// as present, normalizing each for membership tests.
func NewSnapshot(kind BackendKind, identifiers []string) InventorySnapshot {
	present := make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		key := NormalizeIdentifier(id)
		if key == "" {
			continue
		}
		present[key] = struct{}{}
	}
	return InventorySnapshot{Kind: kind, present: present}
}

// EmptySnapshot returns the snapshot used when a backend cannot be
// queried: nothing present, flagged partial.
func EmptySnapshot(kind BackendKind) InventorySnapshot {
	return InventorySnapshot{Kind: kind, present: map[string]struct{}{}, Partial: true}
}

// Has reports whether the given identifier was present at query time.
func (s InventorySnapshot) Has(name string) bool {
	_, ok := s.present[NormalizeIdentifier(name)]
	return ok
}

// Len returns the number of present identifiers.
func (s InventorySnapshot) Len() int {
	return len(s.present)
}
