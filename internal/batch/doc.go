// Package batch analyzes many dyads concurrently.
//
// Each dyad is analyzed independently by a bounded set of workers. A failing
// dyad never cancels its siblings: the error is captured on its Outcome and the
// rest of the batch continues.
package batch
