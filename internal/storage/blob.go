package storage

import "io"

// BlobStore holds uploaded files: assignment attachments, submission
// attachments and profile pictures. Keys are opaque to callers.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
