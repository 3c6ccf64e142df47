// Package condition tracks timed conditions on a combatant, such as the
// sustained effects of abilities that last several turns.
package condition

import (
	"fmt"
	"sort"
)

// ActiveSet maps condition ids to the turns they have left.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	remaining map[string]int
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{remaining: make(map[string]int)}
}

// Apply adds id for turns turns. Re-applying keeps the longer duration.
//
// Precondition: id must not be empty and turns must be >= 1.
// Postcondition: Has(id) is true and Remaining(id) >= turns.
func (s *ActiveSet) Apply(id string, turns int) error {
	if id == "" {
		return fmt.Errorf("Apply: id must not be empty")
	}
	if turns < 1 {
		return fmt.Errorf("Apply %q: turns must be >= 1, got %d", id, turns)
	}
	if turns > s.remaining[id] {
		s.remaining[id] = turns
	}
	return nil
}

// Remove deletes id from the set. Removing an absent id is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.remaining, id)
}

// Tick decrements every condition by one turn and removes those that reach
// zero, returning the expired ids in sorted order.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	for id, turns := range s.remaining {
		if turns <= 1 {
			expired = append(expired, id)
			delete(s.remaining, id)
			continue
		}
		s.remaining[id] = turns - 1
	}
	sort.Strings(expired)
	return expired
}

// Has reports whether id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.remaining[id]
	return ok
}

// Remaining returns the turns left for id, or 0 if absent.
func (s *ActiveSet) Remaining(id string) int {
	return s.remaining[id]
}

// IDs returns the active ids in sorted order.
func (s *ActiveSet) IDs() []string {
	out := make([]string, 0, len(s.remaining))
	for id := range s.remaining {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of every active id and its remaining turns.
func (s *ActiveSet) Snapshot() map[string]int {
	out := make(map[string]int, len(s.remaining))
	for id, turns := range s.remaining {
		out[id] = turns
	}
	return out
}

// Len returns the number of active conditions.
func (s *ActiveSet) Len() int { return len(s.remaining) }
