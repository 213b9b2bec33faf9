// package tasks implements long-running catalog operations.
//
// The core abstraction is ExportEngine, which writes per-artist catalog
// exports (discography, donation ledger, profile) to disk in bulk.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
