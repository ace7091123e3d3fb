package libs

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"user-account/models"
)

const (
	ProfilePictureField  = "profile_picture"
	profilePicturePrefix = "profile_picture-"
)

var (
	ErrNotImage        = errors.New("Only images allowed")
	ErrUnexpectedField = errors.New("Unexpected field")
	ErrFileTooLarge    = errors.New("File too large")
)

var allowedImageTypes = regexp.MustCompile(`jpeg|jpg|png|jfif`)

// FileStore persists an accepted upload under name and returns the value
// recorded on the user (a bare filename or a URL).
type FileStore interface {
	Save(ctx context.Context, header *multipart.FileHeader, name string) (string, error)
	Remove(ctx context.Context, stored string) error
}

type Uploader struct {
	Field   string
	MaxSize int64
	Store   FileStore

	prefix string
	last   atomic.Int64
	now    func() time.Time
}

func NewUploader(store FileStore, maxSize int64) *Uploader {
	return &Uploader{
		Field:   ProfilePictureField,
		MaxSize: maxSize,
		Store:   store,
		prefix:  profilePicturePrefix,
		now:     time.Now,
	}
}

// Accept is the type filter: both the extension of originalName and the
// declared MIME type have to match the image allow-list.
func (u *Uploader) Accept(originalName, mimeType string) error {
	ext := strings.ToLower(filepath.Ext(originalName))
	if allowedImageTypes.MatchString(ext) && allowedImageTypes.MatchString(mimeType) {
		return nil
	}
	return ErrNotImage
}

// Filename builds prefix + epoch milliseconds + original extension. The
// millisecond stamp never repeats within a process.
func (u *Uploader) Filename(originalName string) string {
	return fmt.Sprintf("%s%d%s", u.prefix, u.nextStamp(), filepath.Ext(originalName))
}

func (u *Uploader) nextStamp() int64 {
	for {
		ms := u.now().UnixMilli()
		last := u.last.Load()
		if ms <= last {
			ms = last + 1
		}
		if u.last.CompareAndSwap(last, ms) {
			return ms
		}
	}
}

func (u *Uploader) Save(ctx context.Context, header *multipart.FileHeader) (*models.UploadedFile, error) {
	mimeType := header.Header.Get("Content-Type")
	if err := u.Accept(header.Filename, mimeType); err != nil {
		return nil, err
	}
	if u.MaxSize > 0 && header.Size > u.MaxSize {
		return nil, ErrFileTooLarge
	}

	stored, err := u.Store.Save(ctx, header, u.Filename(header.Filename))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &models.UploadedFile{
		Filename:     stored,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
	}, nil
}
