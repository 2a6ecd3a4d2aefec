package sntp

import "fmt"

// Action is what the run does with an accepted server reading.
type Action int

const (
	// ActionApply steps the system clock to the server reading.
	ActionApply Action = iota
	// ActionDryRun reports the reading without touching the clock.
	ActionDryRun
)

func (a Action) String() string {
	switch a {
	case ActionApply:
		return "apply"
	case ActionDryRun:
		return "dry-run"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Outcome is the immutable result of an accepted decision. The run acts
// on it exactly once and terminates.
type Outcome struct {
	Action     Action
	ServerTime int64 // Unix seconds to apply or report
	LocalTime  int64 // local reading the decision was made against
	Offset     int64 // LocalTime - ServerTime
}

// Decide turns a validated server reading into an action, given a local
// clock reading taken once. Direction is checked first: stepping
// backwards is refused unless allowed, since other processes may assume
// time never runs in reverse. The offset threshold then guards against
// applying a wildly wrong reading from a misbehaving or compromised
// server; the boundary is inclusive, |offset| == threshold is accepted.
// Pure function: no I/O, no clock access.
func Decide(local, server int64, allowBackwards bool, threshold int64, dryRun bool) (*Outcome, error) {
	if local > server && !allowBackwards {
		return nil, fmt.Errorf("%w: local clock %d is ahead of server %d",
			ErrBackwardsStep, local, server)
	}

	offset := local - server
	abs := offset
	if abs < 0 {
		abs = -abs
	}
	if abs > threshold {
		return nil, fmt.Errorf("%w: offset %ds, threshold %ds",
			ErrOffsetTooLarge, offset, threshold)
	}

	action := ActionApply
	if dryRun {
		action = ActionDryRun
	}
	return &Outcome{
		Action:     action,
		ServerTime: server,
		LocalTime:  local,
		Offset:     offset,
	}, nil
}
