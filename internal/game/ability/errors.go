package ability

import "fmt"

// NotLearnedError is returned when an ability has not been learned or does not exist.
type NotLearnedError struct {
	ID string
}

func (e *NotLearnedError) Error() string {
	return fmt.Sprintf("ability %q not learned", e.ID)
}

// OnCooldownError reports the turns remaining before an ability is usable.
type OnCooldownError struct {
	ID        string
	Remaining int
}

func (e *OnCooldownError) Error() string {
	return fmt.Sprintf("ability %q on cooldown: %d turns remaining", e.ID, e.Remaining)
}

// InsufficientResourceError reports a force point shortfall.
type InsufficientResourceError struct {
	ID     string
	Needed int
	Have   int
}

func (e *InsufficientResourceError) Error() string {
	return fmt.Sprintf("ability %q needs %d force points (have %d)", e.ID, e.Needed, e.Have)
}

// Shortfall returns how many force points are missing.
func (e *InsufficientResourceError) Shortfall() int { return e.Needed - e.Have }

// UnknownAbilityError is returned for ids absent from the catalog.
type UnknownAbilityError struct {
	ID string
}

func (e *UnknownAbilityError) Error() string {
	return fmt.Sprintf("unknown ability %q", e.ID)
}

// LearnError explains why an ability cannot be learned yet.
type LearnError struct {
	ID     string
	Reason string
}

func (e *LearnError) Error() string {
	return fmt.Sprintf("cannot learn %q: %s", e.ID, e.Reason)
}
