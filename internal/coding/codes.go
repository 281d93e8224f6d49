package coding

import "fmt"

// Legacy integer codes. Parent and child ranges overlap only on the
// number-talk codes (1, 2), which is what makes equality mean recurrence.
const (
	ParentNumberTalk                = 1
	ParentSilentDuringNumberTalk    = 2
	ParentNonNumberTalk             = 3
	ParentSilentDuringNonNumberTalk = 5

	ChildNumberTalk                = 1
	ChildSilentDuringNumberTalk    = 2
	ChildNonNumberTalk             = 4
	ChildSilentDuringNonNumberTalk = 6
)

var (
	parentCodes = map[State]int{
		StateNumberTalk:                ParentNumberTalk,
		StateSilentDuringNumberTalk:    ParentSilentDuringNumberTalk,
		StateNonNumberTalk:             ParentNonNumberTalk,
		StateSilentDuringNonNumberTalk: ParentSilentDuringNonNumberTalk,
	}
	childCodes = map[State]int{
		StateNumberTalk:                ChildNumberTalk,
		StateSilentDuringNumberTalk:    ChildSilentDuringNumberTalk,
		StateNonNumberTalk:             ChildNonNumberTalk,
		StateSilentDuringNonNumberTalk: ChildSilentDuringNonNumberTalk,
	}
	parentStates = invert(parentCodes)
	childStates  = invert(childCodes)
)

func invert(codes map[State]int) map[int]State {
	out := make(map[int]State, len(codes))
	for state, code := range codes {
		out[code] = state
	}
	return out
}

// ParentCode returns the integer code of a parent-channel state.
func ParentCode(s State) (int, bool) {
	code, ok := parentCodes[s]
	return code, ok
}

// ChildCode returns the integer code of a child-channel state.
func ChildCode(s State) (int, bool) {
	code, ok := childCodes[s]
	return code, ok
}

// ParentState decodes a parent-channel code.
func ParentState(code int) (State, bool) {
	s, ok := parentStates[code]
	return s, ok
}

// ChildState decodes a child-channel code.
func ChildState(code int) (State, bool) {
	s, ok := childStates[code]
	return s, ok
}

// Codes returns the integer code pair for an event.
func (e Event) Codes() (parent, child int) {
	ps, cs := e.States()
	parent, _ = ParentCode(ps)
	child, _ = ChildCode(cs)
	return parent, child
}

// Encode flattens events into the two integer channels.
func Encode(events []Event) (parent, child []int) {
	parent = make([]int, len(events))
	child = make([]int, len(events))
	for i, e := range events {
		parent[i], child[i] = e.Codes()
	}
	return parent, child
}

// DecodePair recovers the event behind a code pair. It fails when either code
// is unknown or the pair does not mirror.
func DecodePair(parentCode, childCode int) (Event, error) {
	if reason := pairProblem(parentCode, childCode); reason != "" {
		return Event{}, fmt.Errorf("parent %d / child %d: %s", parentCode, childCode, reason)
	}
	ps, _ := ParentState(parentCode)
	switch ps {
	case StateNumberTalk:
		return Event{Speaker: SpeakerParent, NumberTalk: true}, nil
	case StateNonNumberTalk:
		return Event{Speaker: SpeakerParent}, nil
	case StateSilentDuringNumberTalk:
		return Event{Speaker: SpeakerChild, NumberTalk: true}, nil
	default:
		return Event{Speaker: SpeakerChild}, nil
	}
}

// Decode recovers the event sequence behind two integer channels.
func Decode(parent, child []int) ([]Event, error) {
	if len(parent) != len(child) {
		return nil, fmt.Errorf("channels differ in length: parent %d, child %d", len(parent), len(child))
	}
	events := make([]Event, len(parent))
	for i := range parent {
		e, err := DecodePair(parent[i], child[i])
		if err != nil {
			return nil, fmt.Errorf("timepoint %d: %w", i, err)
		}
		events[i] = e
	}
	return events, nil
}

// pairProblem returns a human-readable reason why a code pair is invalid, or
// "" for a valid pair.
func pairProblem(parentCode, childCode int) string {
	ps, okParent := ParentState(parentCode)
	cs, okChild := ChildState(childCode)
	switch {
	case !okParent && !okChild:
		return fmt.Sprintf("unknown parent code %d and unknown child code %d", parentCode, childCode)
	case !okParent:
		return fmt.Sprintf("unknown parent code %d", parentCode)
	case !okChild:
		return fmt.Sprintf("unknown child code %d", childCode)
	}
	if mirror(ps) != cs {
		want, _ := ChildCode(mirror(ps))
		return fmt.Sprintf("parent code %d (%s) must pair with child code %d, got %d", parentCode, ps, want, childCode)
	}
	return ""
}

// mirror maps one channel's state to the partner channel's state.
func mirror(s State) State {
	switch s {
	case StateNumberTalk:
		return StateSilentDuringNumberTalk
	case StateSilentDuringNumberTalk:
		return StateNumberTalk
	case StateNonNumberTalk:
		return StateSilentDuringNonNumberTalk
	case StateSilentDuringNonNumberTalk:
		return StateNonNumberTalk
	default:
		return 0
	}
}
