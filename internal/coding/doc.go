// Package coding models the utterance coding scheme used for number-talk
// conversations.
//
// Each timepoint is one utterance by either the parent or the child, tagged as
// number talk or not. From the speaker's point of view that utterance is
// NumberTalk or NonNumberTalk; from the partner's point of view it is
// SilentDuringNumberTalk or SilentDuringNonNumberTalk. Event.States derives
// both channels from one Event, so the two channels always mirror each other.
//
// The legacy integer scheme flattens the states into disjoint per-channel code
// ranges (parent 1/2/3/5, child 1/2/4/6) so that plain equality marks number
// talk recurrence. Check validates hand-coded integer channels against that
// scheme and reports every non-mirrored timepoint.
package coding
