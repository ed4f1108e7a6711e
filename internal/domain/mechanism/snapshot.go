package mechanism

// DisplayRows is the number of text rows on the status display.
const DisplayRows = 2

// Transition records one committed state change.
type Transition struct {
	// From is the state that was left.
	From State
	// To is the state that was entered.
	To State
	// AtMillis is the controller clock reading when it was committed.
	AtMillis uint32
	// Cause names what forced it, e.g. "dwell", "motion", "remote".
	Cause string
}

// Snapshot is a point-in-time copy of the controller's observable state.
type Snapshot struct {
	// State is the current state.
	State State
	// StateStartMillis is when the current state was entered.
	StateStartMillis uint32
	// NowMillis is the clock reading the snapshot was taken at.
	NowMillis uint32
	// Motor is the last level written to the motor line.
	Motor bool
	// Indicator is the last level written to the indicator line.
	Indicator bool
	// LastDistance is the latest ultrasonic reading, if any.
	LastDistance *Distance
	// Display mirrors the text rows last printed.
	Display [DisplayRows]string
	// Transitions holds recent transitions, oldest first.
	Transitions []Transition
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s

	if s.LastDistance != nil {
		d := *s.LastDistance
		cloned.LastDistance = &d
	}

	if s.Transitions != nil {
		cloned.Transitions = append([]Transition(nil), s.Transitions...)
	}

	return &cloned
}
