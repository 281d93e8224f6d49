package coding_test

import (
	"errors"
	"strings"
	"testing"

	"crqa/internal/coding"
	"crqa/internal/recurrence"
)

func TestEventCodesMirror(t *testing.T) {
	cases := []struct {
		event        coding.Event
		parent, kid  int
		parentState  coding.State
		childState   coding.State
	}{
		{coding.Event{Speaker: coding.SpeakerParent, NumberTalk: true}, 1, 2, coding.StateNumberTalk, coding.StateSilentDuringNumberTalk},
		{coding.Event{Speaker: coding.SpeakerChild, NumberTalk: true}, 2, 1, coding.StateSilentDuringNumberTalk, coding.StateNumberTalk},
		{coding.Event{Speaker: coding.SpeakerParent}, 3, 6, coding.StateNonNumberTalk, coding.StateSilentDuringNonNumberTalk},
		{coding.Event{Speaker: coding.SpeakerChild}, 5, 4, coding.StateSilentDuringNonNumberTalk, coding.StateNonNumberTalk},
	}
	for _, tc := range cases {
		p, c := tc.event.Codes()
		if p != tc.parent || c != tc.kid {
			t.Fatalf("%+v: codes (%d,%d), want (%d,%d)", tc.event, p, c, tc.parent, tc.kid)
		}
		ps, cs := tc.event.States()
		if ps != tc.parentState || cs != tc.childState {
			t.Fatalf("%+v: states (%s,%s)", tc.event, ps, cs)
		}
		back, err := coding.DecodePair(p, c)
		if err != nil {
			t.Fatalf("DecodePair(%d,%d): %v", p, c, err)
		}
		if back != tc.event {
			t.Fatalf("DecodePair(%d,%d) = %+v, want %+v", p, c, back, tc.event)
		}
	}
}

func TestCheckReportsEveryViolation(t *testing.T) {
	parent := []int{3, 1, 1, 5, 7, 2}
	child := []int{6, 2, 1, 4, 2, 9}
	violations := coding.Check(parent, child)
	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %v", violations)
	}
	wantIdx := []int{2, 4, 5}
	for i, v := range violations {
		if v.Index != wantIdx[i] {
			t.Fatalf("violation %d at index %d, want %d", i, v.Index, wantIdx[i])
		}
	}
	if !strings.Contains(violations[0].Reason, "must pair with child code 2") {
		t.Fatalf("unexpected reason %q", violations[0].Reason)
	}
	if !strings.Contains(violations[1].Reason, "unknown parent code 7") {
		t.Fatalf("unexpected reason %q", violations[1].Reason)
	}
	if !strings.Contains(violations[2].Reason, "unknown child code 9") {
		t.Fatalf("unexpected reason %q", violations[2].Reason)
	}
}

func TestValidateReturnsTypedError(t *testing.T) {
	if err := coding.Validate("d1", []int{1, 2}, []int{2, 1}); err != nil {
		t.Fatalf("expected valid pair, got %v", err)
	}
	err := coding.Validate("d2", []int{1, 3}, []int{1, 4})
	var verr *coding.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.DyadID != "d2" || len(verr.Violations) != 2 {
		t.Fatalf("unexpected error contents: %+v", verr)
	}
	if !strings.Contains(err.Error(), "dyad d2: 2 invalid timepoints") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestStateRecurrenceMatchesCodeEquality(t *testing.T) {
	parent := []int{3, 2, 1, 1, 2, 1, 3, 5, 1, 2, 1, 1, 5, 1, 1}
	child := []int{6, 1, 2, 2, 1, 2, 6, 4, 2, 1, 2, 2, 4, 2, 2}
	events, err := coding.Decode(parent, child)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	fromStates, err := recurrence.MatrixFromRows(coding.RecurrenceRows(events))
	if err != nil {
		t.Fatalf("MatrixFromRows: %v", err)
	}
	fromCodes, err := recurrence.BuildMatrix(parent, child, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	if !fromStates.Equal(fromCodes) {
		t.Fatal("state-model recurrence differs from code-equality recurrence")
	}

	p2, c2 := coding.Encode(events)
	for i := range parent {
		if p2[i] != parent[i] || c2[i] != child[i] {
			t.Fatalf("Encode round trip differs at %d", i)
		}
	}
}

func TestDecodeRejectsMismatch(t *testing.T) {
	if _, err := coding.Decode([]int{1}, []int{1, 2}); err == nil {
		t.Fatal("expected length error")
	}
	if _, err := coding.Decode([]int{1, 1}, []int{2, 1}); err == nil || !strings.Contains(err.Error(), "timepoint 1") {
		t.Fatalf("expected timepoint error, got %v", err)
	}
}

func TestSpeakerAndLabels(t *testing.T) {
	for input, want := range map[string]coding.Speaker{"Parent": coding.SpeakerParent, " c ": coding.SpeakerChild} {
		got, err := coding.ParseSpeaker(input)
		if err != nil || got != want {
			t.Fatalf("ParseSpeaker(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := coding.ParseSpeaker("sibling"); err == nil {
		t.Fatal("expected unknown speaker error")
	}
	if got := coding.StateSilentDuringNumberTalk.Label(); got != "Silent During Number Talk" {
		t.Fatalf("unexpected label %q", got)
	}
	if coding.SpeakerParent.Partner() != coding.SpeakerChild {
		t.Fatal("partner of parent should be child")
	}
}
