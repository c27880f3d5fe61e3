package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// Supabase stores uploads in a Supabase storage bucket.
type Supabase struct {
	client *storage.Client
	bucket string
	folder string
}

var _ Storage = (*Supabase)(nil)

func NewSupabase(url, key, bucket string) *Supabase {
	return &Supabase{
		client: storage.NewClient(url+"/storage/v1", key, nil),
		bucket: bucket,
		folder: "answers",
	}
}

func (s *Supabase) Store(_ context.Context, r io.Reader, filename, mimeType string) (string, error) {
	// Object keys are random; the original filename only survives in the
	// answer's file descriptor.
	objectPath := fmt.Sprintf("%s/%s%s", s.folder, uuid.NewString(), filepath.Ext(filename))

	upsert := true
	opts := storage.FileOptions{
		ContentType: &mimeType,
		Upsert:      &upsert,
	}
	if _, err := s.client.UploadFile(s.bucket, objectPath, r, opts); err != nil {
		return "", fmt.Errorf("upload %q: %w", filename, err)
	}

	public := s.client.GetPublicUrl(s.bucket, objectPath)
	return public.SignedURL, nil
}
