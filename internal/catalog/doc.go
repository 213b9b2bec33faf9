// Package catalog implements the authoritative store of songs, musicians, and donations.
//
// The [Catalog] is an observable store: every mutation runs to completion,
// then pushes a [Event] to subscribers over buffered channels so UI layers
// re-render from fresh snapshots instead of polling. Ranked listings are
// recomputed on every call; the dataset is small and caching would only add
// invalidation risk.
//
// The catalog validates eagerly and never applies a mutation partially: a
// rejected upload leaves no half-populated song behind.
package catalog
