// Package events implements the bounded kernel-to-user message queue
// of spec §4.6: EVENT_NEW_PROCESS notifications flow through a
// fixed-capacity channel to a control loop that asks the process
// tracker to publish mapping info. A queue-full event is counted, not
// blocked on or silently grown, and the control loop separately
// reconciles on a timer so a missed event is never permanently lost
// (spec §4.6, §4.3 "on REQUEST_REFRESH_PROCINFO").
//
// The control loop's shape — context-cancelable, select over a ticker
// and an input channel — follows cmd/consumption/main.go's sampling
// loop (github.com/ja7ad/consumption), generalized from a single
// sample-tick select to a dispatch loop with two event sources.
package events
