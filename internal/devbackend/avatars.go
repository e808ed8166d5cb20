package devbackend

import (
	"bytes"
	"context"
	"path"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/realio-auth/pkg/helpers"
)

// AvatarStore persists profile images and returns their public URL.
type AvatarStore interface {
	Put(ctx context.Context, userID, contentType string, data []byte) (string, error)
}

// GCSAvatars writes avatars to a Cloud Storage bucket.
type GCSAvatars struct {
	client *storage.Client
	bucket string
}

func NewGCSAvatars(client *storage.Client, bucket string) *GCSAvatars {
	return &GCSAvatars{client: client, bucket: bucket}
}

func (g *GCSAvatars) Put(ctx context.Context, userID, contentType string, data []byte) (string, error) {
	return helpers.UploadObject(ctx, g.client, g.bucket, objectPath(userID, contentType), contentType, bytes.NewReader(data))
}

// MemoryAvatars keeps avatars in process under memory:// URLs.
type MemoryAvatars struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryAvatars() *MemoryAvatars {
	return &MemoryAvatars{objects: map[string][]byte{}}
}

func (m *MemoryAvatars) Put(_ context.Context, userID, contentType string, data []byte) (string, error) {
	p := objectPath(userID, contentType)
	m.mu.Lock()
	m.objects[p] = bytes.Clone(data)
	m.mu.Unlock()
	return "memory://" + p, nil
}

// Object returns a stored avatar by its URL.
func (m *MemoryAvatars) Object(url string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[strings.TrimPrefix(url, "memory://")]
	return b, ok
}

func objectPath(userID, contentType string) string {
	return path.Join("avatars", userID, uuid.NewString()+imageExt(contentType))
}

func imageExt(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ""
	}
}
