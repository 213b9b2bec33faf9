// Package models defines domain entities and persistence interfaces for the embrace label catalog.
//
// The package contains three categories of types:
//
// 1. Catalog entities: database-backed records owned by the catalog store
//   - [Song] : An uploaded track with play/like counters and a denormalized artist name
//   - [Donation] : An append-only support payment to a musician or the label itself
//
// 2. Account variants: the closed [User] union
//   - [Musician] : Publishes songs, receives donations, has an artist profile
//   - [Listener] : Browses and plays songs, likes songs, follows artists
//
// 3. Input shapes: [SongUpload], [DonationDraft], [ProfilePatch], the caller-supplied
// portions of a mutation; the store assigns identifiers, counters, and timestamps.
//
// The Repository[T] interface defines standard CRUD operations for database access.
package models
