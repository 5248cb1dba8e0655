// Package engine implements the per-data-type synchronization worker: the
// component that sits between a local data model and a remote sync server
// for one category of data.
//
// A ModelTypeWorker translates local mutations into bounded commit
// contributions, ingests server update batches (decrypting payloads or
// parking them until a key arrives), and resolves conflicts between pending
// local commits and incoming server state with a server-wins policy. The
// worker is single-goroutine: it is owned by one sync loop and all
// cross-goroutine interaction is posted into that loop.
package engine
