package models

import "time"

// User is the stored account record. Password holds the argon2 encoded hash
// and is never rendered; clients get a PublicUser.
type User struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	ProfilePicture string    `json:"profile_picture"`
	Password       string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PublicUser struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Submission is a validated register or update payload.
type Submission struct {
	Name           string `json:"name" form:"name"`
	Email          string `json:"email" form:"email"`
	Phone          string `json:"phone" form:"phone"`
	Password       string `json:"password" form:"password"`
	ProfilePicture string `json:"profile_picture" form:"profile_picture"`
}

// UploadedFile describes a profile picture stored by the upload middleware.
type UploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
}

// MergeUser applies the non-empty fields of patch on top of current. ID and
// Password always come from current.
func MergeUser(current User, patch Submission) User {
	merged := current
	if patch.Name != "" {
		merged.Name = patch.Name
	}
	if patch.Email != "" {
		merged.Email = patch.Email
	}
	if patch.Phone != "" {
		merged.Phone = patch.Phone
	}
	if patch.ProfilePicture != "" {
		merged.ProfilePicture = patch.ProfilePicture
	}
	return merged
}
