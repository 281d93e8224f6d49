package coding

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Speaker identifies who produced an utterance.
type Speaker int

const (
	SpeakerParent Speaker = iota
	SpeakerChild
)

func (s Speaker) String() string {
	switch s {
	case SpeakerParent:
		return "parent"
	case SpeakerChild:
		return "child"
	default:
		return fmt.Sprintf("speaker(%d)", int(s))
	}
}

// Partner returns the other party of the dyad.
func (s Speaker) Partner() Speaker {
	if s == SpeakerParent {
		return SpeakerChild
	}
	return SpeakerParent
}

// ParseSpeaker accepts "parent"/"child" and the single-letter forms.
func ParseSpeaker(value string) (Speaker, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "parent", "p", "caregiver", "mother", "father":
		return SpeakerParent, nil
	case "child", "c", "kid":
		return SpeakerChild, nil
	default:
		return 0, fmt.Errorf("unknown speaker %q", value)
	}
}

// State is one channel's view of a timepoint.
type State int

const (
	StateNumberTalk State = iota + 1
	StateNonNumberTalk
	StateSilentDuringNumberTalk
	StateSilentDuringNonNumberTalk
)

func (s State) String() string {
	switch s {
	case StateNumberTalk:
		return "number_talk"
	case StateNonNumberTalk:
		return "non_number_talk"
	case StateSilentDuringNumberTalk:
		return "silent_during_number_talk"
	case StateSilentDuringNonNumberTalk:
		return "silent_during_non_number_talk"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var titleCaser = cases.Title(language.English)

// Label renders the state for humans, e.g. "Silent During Number Talk".
func (s State) Label() string {
	return titleCaser.String(strings.ReplaceAll(s.String(), "_", " "))
}

// InvolvesNumberTalk reports whether number talk happened at the timepoint,
// regardless of who produced it.
func (s State) InvolvesNumberTalk() bool {
	return s == StateNumberTalk || s == StateSilentDuringNumberTalk
}

// Event is one utterance.
type Event struct {
	Speaker    Speaker
	NumberTalk bool
}

// States returns the parent channel and child channel states for the event.
func (e Event) States() (parent, child State) {
	speaking, silent := StateNonNumberTalk, StateSilentDuringNonNumberTalk
	if e.NumberTalk {
		speaking, silent = StateNumberTalk, StateSilentDuringNumberTalk
	}
	if e.Speaker == SpeakerParent {
		return speaking, silent
	}
	return silent, speaking
}

// Recurs reports whether a parent-channel state at one time and a child-channel
// state at another time count as recurrent: both channels in the same
// number-talk-related state.
func Recurs(parent, child State) bool {
	return parent == child && parent.InvolvesNumberTalk()
}

// RecurrenceRows evaluates Recurs for every (i, j) pair of events. Rows index
// the parent channel.
func RecurrenceRows(events []Event) [][]bool {
	parents := make([]State, len(events))
	children := make([]State, len(events))
	for i, e := range events {
		parents[i], children[i] = e.States()
	}
	rows := make([][]bool, len(events))
	for i := range rows {
		rows[i] = make([]bool, len(events))
		for j := range rows[i] {
			rows[i][j] = Recurs(parents[i], children[j])
		}
	}
	return rows
}
