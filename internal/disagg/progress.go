package disagg

// State is the lifecycle stage of an Engine.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress is a snapshot of a run. Values read while the engine is running
// may be slightly stale but never go backwards.
type Progress struct {
	Processed int64
	Total     int64
	State     State
}

// Fraction is Processed/Total, or 0 before the total is known.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Processed) / float64(p.Total)
}

// Processed is the number of ruptures walked so far in the current or last
// run, including ruptures of sources skipped by distance.
func (e *Engine) Processed() int64 { return e.processed.Load() }

// Total is the number of ruptures in the forecast of the current or last
// run.
func (e *Engine) Total() int64 { return e.total.Load() }

// State reports where the engine is in its lifecycle.
func (e *Engine) State() State { return State(e.state.Load()) }

// IsDone reports whether the last run walked every rupture. It is true after
// a successful run and after a run that found no exceedance. A run that
// failed for any other reason is not done, even before it counted anything.
func (e *Engine) IsDone() bool {
	switch e.State() {
	case StateDone:
		return true
	case StateFailed:
		return e.exhausted.Load()
	default:
		return false
	}
}

// Progress returns a snapshot of the counters.
func (e *Engine) Progress() Progress {
	return Progress{
		Processed: e.processed.Load(),
		Total:     e.total.Load(),
		State:     e.State(),
	}
}
