package storage

import (
	"context"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService defines the interface for media storage operations.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error)
	GetSecureDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error)
	UploadVerificationFile(ctx context.Context, localFilePath, encryptionKey string) (string, error)
	UploadWithContext(ctx context.Context, localFilePath string, isPrivate, isImage bool, encryptionKey string) (string, error)
}

// StorageServiceImpl implements StorageService using Cloudinary.
type StorageServiceImpl struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	apiSecret string
}

// UploadWithContext uploads a file, picking the destination folder from its kind.
// Private uploads (contractor verification documents) are encrypted before upload;
// encryptionKey is required when isPrivate is true.
func (s *StorageServiceImpl) UploadWithContext(ctx context.Context, localFilePath string, isPrivate, isImage bool, encryptionKey string) (string, error) {
	if isPrivate {
		return s.UploadVerificationFile(ctx, localFilePath, encryptionKey)
	}
	folder := "public/files"
	if isImage {
		folder = "public/images"
	}
	return s.UploadFile(ctx, localFilePath, folder)
}
