// Package playback owns the single listening session.
//
// [Session] wraps an [audio.Driver] and enforces the play accounting rules:
// selecting a track that differs from the current one loads it, starts it,
// and bumps its play count exactly once; re-selecting the current track only
// resumes. Driver events tagged with a source that no longer matches the
// current track are dropped, so a rapid track switch cannot leak a stale
// progress tick or a stale end into the new track's state.
package playback
