// Package blob is the boundary to the file-blob storage collaborator. The
// engine only ever holds the opaque reference a Store call returns; raw
// bytes never enter a response record.
package blob

import (
	"context"
	"io"
)

type Storage interface {
	// Store persists the bytes and returns an opaque reference (a public
	// URL for the Supabase implementation).
	Store(ctx context.Context, r io.Reader, filename, mimeType string) (string, error)
}
