package images

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Store uploads product images to Cloudinary and deletes them when a
// product is removed.
type Store struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewStore(cloudinaryURL, folder string) (*Store, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Store{cld: cld, folder: folder}, nil
}

// Upload stores the image and returns its public HTTPS URL.
func (s *Store) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: strings.TrimSuffix(name, fileExt(name)),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return res.SecureURL, nil
}

// Delete removes an uploaded image by its URL. URLs not hosted on
// Cloudinary (seed images, external links) are ignored.
func (s *Store) Delete(ctx context.Context, imageURL string) error {
	publicID, ok := s.publicIDFromURL(imageURL)
	if !ok {
		return nil
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}

func (s *Store) publicIDFromURL(imageURL string) (string, bool) {
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return "", false
	}
	idx := strings.Index(imageURL, s.folder+"/")
	if idx < 0 {
		return "", false
	}
	id := imageURL[idx:]
	return strings.TrimSuffix(id, fileExt(id)), true
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
