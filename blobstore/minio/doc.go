// Package minio implements blobstore.Store for MinIO and other
// S3-compatible object storage, using the native MinIO SDK rather than the
// AWS one. Prefer this package for self-hosted MinIO deployments; the s3
// package covers AWS itself.
package minio
