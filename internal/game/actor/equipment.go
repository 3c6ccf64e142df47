package actor

// Equipment is the life-support gear an actor wears. Combat reads its
// integrity and pain state and writes damage to it.
type Equipment interface {
	// Integrity returns structural integrity in [0, 100].
	Integrity() int
	// BreathingImpaired reports whether regeneration should be halved.
	BreathingImpaired() bool
	// AttackPenalty returns the flat reduction applied to basic attacks.
	AttackPenalty() int
	// Damage reduces integrity by pct points.
	Damage(pct int)
}

const (
	suitBasePain            = 40
	suitPainThreshold       = 60
	suitBreathingIntegrity  = 40
	suitPainPerPenaltyPoint = 20
)

// Suit is the default Equipment implementation.
//
// Invariant: 0 <= integrity <= 100 and 0 <= pain <= 100.
type Suit struct {
	integrity int
	pain      int
	threshold int
}

// NewSuit returns an undamaged suit at baseline pain.
func NewSuit() *Suit {
	return &Suit{integrity: 100, pain: suitBasePain, threshold: suitPainThreshold}
}

func (s *Suit) Integrity() int { return s.integrity }

// Pain returns the current pain level.
func (s *Suit) Pain() int { return s.pain }

func (s *Suit) BreathingImpaired() bool { return s.integrity < suitBreathingIntegrity }

// AttackPenalty is (pain-threshold)/20 while pain exceeds the threshold.
func (s *Suit) AttackPenalty() int {
	if s.pain <= s.threshold {
		return 0
	}
	return (s.pain - s.threshold) / suitPainPerPenaltyPoint
}

// Damage reduces integrity by pct and raises pain by half of pct, even when
// less integrity than pct remained.
func (s *Suit) Damage(pct int) {
	if pct <= 0 {
		return
	}
	lost := min(pct, s.integrity)
	s.integrity -= lost
	s.pain = clamp(s.pain+pct/2, 0, 100)
}

// Repair restores up to n integrity. A suit repaired to full returns to
// baseline pain.
func (s *Suit) Repair(n int) {
	if n <= 0 {
		return
	}
	s.integrity = clamp(s.integrity+n, 0, 100)
	if s.integrity == 100 {
		s.pain = suitBasePain
	}
}

// RegenFrom derives regeneration modifiers from the worn equipment.
func RegenFrom(e Equipment) RegenContext {
	return RegenContext{BreathingImpaired: e.BreathingImpaired()}
}
