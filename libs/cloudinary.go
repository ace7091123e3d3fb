package libs

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"user-account/config"
)

// CloudinaryStore keeps profile pictures on Cloudinary; the stored value is
// the secure delivery URL.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	if !cfg.Enabled() {
		return nil, errors.New("cloudinary credentials not configured")
	}

	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}

	return &CloudinaryStore{cld: cld, folder: cfg.Folder}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, header *multipart.FileHeader, name string) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     strings.TrimSuffix(name, path.Ext(name)),
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("upload to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload to cloudinary: %s", resp.Error.Message)
	}

	if resp.SecureURL != "" {
		return resp.SecureURL, nil
	}
	if resp.URL != "" {
		return resp.URL, nil
	}
	return "", errors.New("cloudinary returned no url")
}

func (s *CloudinaryStore) Remove(ctx context.Context, stored string) error {
	publicID := cloudinaryPublicID(s.folder, stored)
	if publicID == "" {
		return nil
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("delete from cloudinary: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary deletion failed: %s", result.Result)
	}
	return nil
}

// cloudinaryPublicID maps a delivery URL back to folder/name.
func cloudinaryPublicID(folder, stored string) string {
	if stored == "" {
		return ""
	}
	base := path.Base(stored)
	id := strings.TrimSuffix(base, path.Ext(base))
	if folder == "" {
		return id
	}
	return folder + "/" + id
}
