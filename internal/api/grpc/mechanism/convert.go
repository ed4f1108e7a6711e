package mechanism

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/motion-controller/internal/domain/mechanism"
)

// SnapshotToStruct converts a snapshot into its wire form.
func SnapshotToStruct(s *domain.Snapshot) (*structpb.Struct, error) {
	if s == nil {
		return new(structpb.Struct), nil
	}

	display := make([]any, 0, len(s.Display))
	for _, line := range s.Display {
		display = append(display, line)
	}

	transitions := make([]any, 0, len(s.Transitions))
	for _, tr := range s.Transitions {
		transitions = append(transitions, map[string]any{
			"from":  tr.From.String(),
			"to":    tr.To.String(),
			"at_ms": tr.AtMillis,
			"cause": tr.Cause,
		})
	}

	var distance any
	if d := s.LastDistance; d != nil {
		distance = map[string]any{
			"echo_us": d.EchoMicros,
			"cm":      d.Centimeters,
			"known":   d.Known,
			"text":    d.String(),
		}
	}

	fields := map[string]any{
		"state":          s.State.String(),
		"state_since_ms": s.StateStartMillis,
		"now_ms":         s.NowMillis,
		"motor":          s.Motor,
		"indicator":      s.Indicator,
		"distance":       distance,
		"display":        display,
		"transitions":    transitions,
	}

	result, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build status struct: %w", err)
	}

	return result, nil
}

func hexCode(code uint32) string {
	return fmt.Sprintf("0x%06X", code)
}
