// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentSource: Fetches raw documents from a published data source
//   - CacheStore: Corpus and sync bookkeeping persistence
//   - SearchEngine: Full-text search over the corpus
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ProvenanceChecker: Upstream commit lookup. Without it, sync state
//     simply carries no provenance.
//   - PDFResolver: Source PDF lookup. Without it, `gazette open` is
//     unavailable.
//   - SchedulerStore: Scheduler crash recovery. Only needed in
//     long-running modes.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
