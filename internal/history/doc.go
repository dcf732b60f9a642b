// Package history persists a record of every file murmur has processed in a
// local SQLite database so operators can review past batches with
// `murmur history`.
package history
