package assets

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStore is the external asset-host boundary for product images
type ImageStore interface {
	// Upload stores an image (a URL or base64 data URI) under the given
	// folder and returns its public URL.
	Upload(ctx context.Context, image, folder string) (string, error)
	// Delete removes the asset with the given public id.
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryStore implements ImageStore against Cloudinary
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore creates a store from a cloudinary:// URL
func NewCloudinaryStore(url string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{cld: cld}, nil
}

// Upload stores the image and returns its secure URL
func (s *CloudinaryStore) Upload(ctx context.Context, image, folder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, image, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

// Delete removes the asset with the given public id
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}
