// Package repositories provides the persistence layer for the label catalog.
//
// Each repository wraps raw SQL over the process-local SQLite database
// (":memory:" by default), handling CRUD operations, sequence generation, and
// the join rows backing listener likes and follows. Repositories are dumb
// storage: operation semantics (counter zeroing, timestamps on upload,
// validation of cross-entity references) belong to the catalog and identity
// stores that own them.
package repositories
