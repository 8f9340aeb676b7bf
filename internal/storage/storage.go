package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// exerciseImagePrefix namespaces exercise images inside the bucket.
const exerciseImagePrefix = "exercises"

// FileStorage defines the object storage operations used for exercise images.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that accepts a PUT of objectKey.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that serves objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// ExerciseImageKey builds a fresh object key for an image of exerciseID.
// The extension follows contentType; unknown types get none.
func ExerciseImageKey(exerciseID, contentType string) string {
	ext := ""
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	return path.Join(exerciseImagePrefix, exerciseID, fmt.Sprintf("%s%s", uuid.NewString(), ext))
}

// IsObjectKey reports whether an image reference points into the bucket rather than
// at an absolute URL.
func IsObjectKey(ref string) bool {
	if ref == "" {
		return false
	}
	return !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://")
}
