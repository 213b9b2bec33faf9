// Package services defines the boundary to external collaborators.
//
// The only outbound call this application makes is biography drafting: given
// an artist name and genre label, [BioDrafter] asynchronously returns a short
// biography. The Gemini-backed implementation may fail or be unconfigured;
// callers always fall back to the deterministic local template via
// [FallbackBio], so registration completes in bounded time regardless.
package services
