// Package keepalivestats aggregates duration metrics for background
// keepalive sessions: how long each keepalive existed, how long it was
// active rather than suspended, and how much time was spent at each level of
// keepalive concurrency.
//
// A Tracker is fed lifecycle events (start, pause, resume, stop) keyed by a
// (network id, slot) pair and answers with aggregated Metrics, either as a
// snapshot (BuildMetrics) or as a snapshot that also resets the counters for
// the next reporting window (BuildAndResetMetrics). The event methods must be
// called in a timely manner to keep the durations accurate.
//
// Time is read through the Clock interface so tests can drive it; the
// default clock counts monotonic milliseconds since the Tracker was created.
package keepalivestats
