// Package blobstore provides storage abstraction for saved paginator state.
//
// Store is the interface for reading and writing named state documents.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: In-memory, for tests and ephemeral state
//   - LocalStore: Local filesystem with atomic writes
//   - s3.Store: Amazon S3
//   - s3.CommitStore: S3 with a DynamoDB-versioned CURRENT pointer
//   - minio.Store: MinIO and other S3-compatible storage
//   - CachingStore: Read-through cache layered over a slow remote store
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Put(ctx, name, data) error         // Atomic write
//	    Get(ctx, name) ([]byte, error)     // Whole-blob read
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
