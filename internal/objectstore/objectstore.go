// Package objectstore provides read access to the transcript bucket.
package objectstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// Object describes one stored object.
type Object struct {
	Name    string
	Created time.Time
}

// ObjectStore is the read-only interface over the transcript bucket.
// Transcripts are written by the external transcription pipeline.
type ObjectStore interface {
	// List returns all objects under prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]Object, error)
	// Read returns the full contents of the named object.
	Read(ctx context.Context, name string) ([]byte, error)
}
