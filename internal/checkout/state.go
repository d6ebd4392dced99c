package checkout

import "fmt"

type State int

const (
	StateIdle State = iota
	StateConfirmPending
	StateProcessing
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConfirmPending:
		return "CONFIRM_PENDING"
	case StateProcessing:
		return "PROCESSING"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{StateIdle, StateConfirmPending, StateProcessing, StateCompleted} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown checkout state %q", text)
}

// cartMutable reports whether line items and member selection may change.
func (s State) cartMutable() bool {
	return s == StateIdle || s == StateConfirmPending
}
