package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so that every roll made during an
// encounter is recorded at debug level with its purpose.
//
// Roller itself satisfies Source, so it can be handed to code that only
// needs raw integers.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn delegates to the wrapped Source without logging.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

// Roll evaluates expr and logs the result.
func (r *Roller) Roll(expr Expression, purpose string) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("purpose", purpose),
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// Percent rolls d100 and logs the roll.
func (r *Roller) Percent(purpose string) int {
	roll := Percent(r.src)
	r.logger.Debug("percentile roll", zap.String("purpose", purpose), zap.Int("roll", roll))
	return roll
}

// Chance rolls d100 against pct and logs the outcome.
func (r *Roller) Chance(purpose string, pct int) bool {
	roll := Percent(r.src)
	ok := roll <= pct
	r.logger.Debug("percentile check",
		zap.String("purpose", purpose),
		zap.Int("roll", roll),
		zap.Int("target", pct),
		zap.Bool("success", ok),
	)
	return ok
}

// Pick returns a uniformly random index in [0, n) and logs it.
//
// Precondition: n > 0.
func (r *Roller) Pick(purpose string, n int) int {
	i := r.src.Intn(n)
	r.logger.Debug("random pick", zap.String("purpose", purpose), zap.Int("index", i), zap.Int("of", n))
	return i
}
