// Package indexing provides the offline embedding pipeline: it finds corpus
// verses without a stored embedding, embeds them in batches over a worker
// pool, and writes the normalized vectors back.
//
// Runs are idempotent. A verse that already carries an embedding is never
// re-embedded, so an interrupted run picks up where it left off.
package indexing
