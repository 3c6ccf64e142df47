package combat

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Lifecycle states.
const (
	StateNotStarted = "not_started"
	StateActive     = "active"
	StateEnded      = "ended"
)

const (
	eventStart = "start"
	eventEnd   = "end"
)

// Lifecycle is the NotStarted -> Active -> Ended state machine shared by
// regular and boss encounters. Ended is terminal.
type Lifecycle struct {
	machine *fsm.FSM
}

// NewLifecycle returns a lifecycle in StateNotStarted that logs every
// transition to logger.
func NewLifecycle(name string, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		machine: fsm.NewFSM(
			StateNotStarted,
			fsm.Events{
				{Name: eventStart, Src: []string{StateNotStarted}, Dst: StateActive},
				{Name: eventEnd, Src: []string{StateActive}, Dst: StateEnded},
			},
			fsm.Callbacks{
				"enter_state": func(_ context.Context, e *fsm.Event) {
					logger.Info("encounter state change",
						zap.String("encounter", name),
						zap.String("from", e.Src),
						zap.String("to", e.Dst),
					)
				},
			},
		),
	}
}

// Start moves NotStarted to Active.
func (l *Lifecycle) Start() error {
	return l.machine.Event(context.Background(), eventStart)
}

// End moves Active to Ended.
func (l *Lifecycle) End() error {
	return l.machine.Event(context.Background(), eventEnd)
}

// State returns the current state name.
func (l *Lifecycle) State() string { return l.machine.Current() }

// Active reports whether the lifecycle is in StateActive.
func (l *Lifecycle) Active() bool { return l.machine.Is(StateActive) }
