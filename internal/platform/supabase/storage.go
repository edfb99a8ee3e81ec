package supabase

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage "github.com/supabase-community/storage-go"
	"go.uber.org/zap"

	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
)

// AvatarStore uploads avatar objects to the provider's public bucket and
// issues their public URLs. Keys are owned by the caller; nothing here ever
// deletes an object.
type AvatarStore struct {
	client *storage.Client
	bucket string
	log    *zap.SugaredLogger
}

func NewAvatarStore(cfg *cfgpkg.Config, log *zap.SugaredLogger) *AvatarStore {
	base := strings.TrimSuffix(cfg.Supabase.URL, "/") + "/storage/v1"
	return &AvatarStore{
		client: storage.NewClient(base, cfg.Supabase.ServiceKey, nil),
		bucket: cfg.Supabase.AvatarBucket,
		log:    log,
	}
}

func (s *AvatarStore) Upload(ctx context.Context, objectKey string, r io.Reader, contentType string) error {
	opts := storage.FileOptions{}
	if contentType != "" {
		opts.ContentType = &contentType
	}
	if _, err := s.client.UploadFile(s.bucket, objectKey, r, opts); err != nil {
		return fmt.Errorf("storage upload failed: %w", err)
	}
	return nil
}

func (s *AvatarStore) PublicURL(objectKey string) string {
	return s.client.GetPublicUrl(s.bucket, objectKey).SignedURL
}
