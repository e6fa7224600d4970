// Package s3 implements blobstore.Store on Amazon S3.
//
// Store covers the common case of a single writer saving paginator state to
// a bucket. CommitStore layers a DynamoDB-versioned CURRENT pointer on top
// for deployments where several writers may race on the same state name;
// S3 alone has no compare-and-swap, DynamoDB conditional writes supply it.
package s3
