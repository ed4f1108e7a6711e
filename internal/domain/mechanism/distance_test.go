package mechanism

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestMicrosecondsToCentimeters pins the integer conversion, including truncation.
func TestMicrosecondsToCentimeters(t *testing.T) {
	t.Parallel()

	cases := map[int64]int64{
		0:    0,
		57:   0,
		58:   1,
		500:  8,
		579:  9,
		580:  10,
		1739: 29,
		1740: 30,
	}
	for us, cm := range cases {
		require.Equal(t, cm, MicrosecondsToCentimeters(us), "%d µs", us)
	}
}

// TestDistanceFromEcho covers known, timed-out and zero-length echoes.
func TestDistanceFromEcho(t *testing.T) {
	t.Parallel()

	d := DistanceFromEcho(500*time.Microsecond, true)
	require.True(t, d.Known)
	require.Equal(t, int64(8), d.Centimeters)
	require.False(t, d.AtLeast(10))
	require.Equal(t, "8 cm", d.String())

	d = DistanceFromEcho(580*time.Microsecond, true)
	require.True(t, d.AtLeast(10))

	timedOut := DistanceFromEcho(0, false)
	require.False(t, timedOut.Known)
	require.True(t, timedOut.AtLeast(10))
	require.Equal(t, "no echo", timedOut.String())

	zero := DistanceFromEcho(0, true)
	require.False(t, zero.Known)
}

// TestSnapshotClone verifies Clone does not share the distance or history.
func TestSnapshotClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, (*Snapshot)(nil).Clone())

	s := &Snapshot{
		State:        MotorRunning,
		Motor:        true,
		LastDistance: &Distance{EchoMicros: 500, Centimeters: 8, Known: true},
		Display:      [DisplayRows]string{"Motor running!", ""},
		Transitions:  []Transition{{From: BuzzerSinging, To: MotorRunning, AtMillis: 100, Cause: "dwell"}},
	}

	c := s.Clone()
	require.Equal(t, s, c)
	require.NotSame(t, s.LastDistance, c.LastDistance)

	c.Transitions[0].Cause = "remote"
	require.Equal(t, "dwell", s.Transitions[0].Cause)
}
