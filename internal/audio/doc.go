// Package audio abstracts the single playback resource behind [Driver].
//
// Exactly one driver instance exists per process and it holds at most one
// loaded source at a time. Drivers report asynchronously over an event
// channel: metadata (duration) once per loaded source, position ticks while
// playing, and a terminal ended event. Every event carries the source URI it
// was produced for, so consumers can discard events that raced a source
// change.
//
// [ClockDriver] is the built-in implementation: a wall-clock simulation that
// derives a stable duration from the source URI and advances position on a
// ticker. It exists so playback semantics stay testable without a codec or a
// sound device.
package audio
