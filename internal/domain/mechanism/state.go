package mechanism

// State is the tag of the controller's finite-state machine.
type State uint8

// Controller states. The zero value is the power-on state.
const (
	// Calibrating waits for the PIR sensor to settle after power-on.
	Calibrating State = iota
	// Ready shows the ready message before listening starts.
	Ready
	// Listening polls the PIR sensor.
	Listening
	// MotionDetected shows the motion message before measuring distance.
	MotionDetected
	// BuzzerSinging holds the indicator on shortly before the motor engages.
	BuzzerSinging
	// CheckingDistance measures the distance to the nearest object.
	CheckingDistance
	// TooFar shows the "too far" message.
	TooFar
	// MotorRunning drives the motor for a fixed time.
	MotorRunning
	// Paused holds everything off until the remote resumes.
	Paused
	// Resuming shows the resume message before listening again.
	Resuming
	// ContinuousRunning keeps the motor on until the remote stops it.
	ContinuousRunning

	// stateCount is the number of states; keep it last.
	stateCount
)

//nolint:gochecknoglobals // Lookup table indexed by State.
var stateNames = [stateCount]string{
	Calibrating:       "CALIBRATING",
	Ready:             "READY",
	Listening:         "LISTENING",
	MotionDetected:    "MOTION_DETECTED",
	BuzzerSinging:     "BUZZER_SINGING",
	CheckingDistance:  "CHECKING_DISTANCE",
	TooFar:            "TOO_FAR",
	MotorRunning:      "MOTOR_RUNNING",
	Paused:            "PAUSED",
	Resuming:          "RESUMING",
	ContinuousRunning: "CONTINUOUS_RUNNING",
}

// String returns the upper-case name of the state.
func (s State) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}

	return stateNames[s]
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	return s < stateCount
}

// States returns every declared state in declaration order.
func States() []State {
	states := make([]State, 0, stateCount)
	for s := range stateCount {
		states = append(states, s)
	}

	return states
}

// ParseState returns the state with the given name.
func ParseState(name string) (State, bool) {
	for s, n := range stateNames {
		if n == name {
			return State(s), true
		}
	}

	return 0, false
}
