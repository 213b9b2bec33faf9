// Package identity owns the signed-in user and the listener relations.
//
// The [Store] is an observable session holding either no user or exactly one
// [models.User]. Login and registration failures that a user can cause with
// ordinary input, such as a wrong email or a taken artist name, are reported
// as boolean outcomes rather than errors.
//
// Musician registration is the one suspending operation: it asks the
// configured [services.BioDrafter] for a biography under a bounded timeout
// and always completes with either the drafted text or a local fallback.
// Uniqueness is re-checked after the suspension, so a registration that raced
// a duplicate during the draft loses cleanly.
package identity
