package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account/libs"
	"user-account/models"
)

const UploadedFileKey = "uploaded_file"

const multipartMemory = 32 << 20

// formOverhead bounds the non-file part of a multipart body.
const formOverhead = 1 << 20

// Upload parses a multipart body and stores at most one file from
// uploader.Field. Requests that are not multipart pass through. A rejected
// file aborts the request with a plain-text 500, not the JSON envelope.
func Upload(uploader *libs.Uploader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.ContentType() != gin.MIMEMultipartPOSTForm {
			c.Next()
			return
		}

		if uploader.MaxSize > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uploader.MaxSize+formOverhead)
		}
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			rejectUpload(c, logger, err)
			return
		}

		for field, files := range c.Request.MultipartForm.File {
			if field != uploader.Field || len(files) > 1 {
				rejectUpload(c, logger, libs.ErrUnexpectedField)
				return
			}
		}

		files := c.Request.MultipartForm.File[uploader.Field]
		if len(files) == 0 {
			c.Next()
			return
		}

		file, err := uploader.Save(c.Request.Context(), files[0])
		if err != nil {
			rejectUpload(c, logger, err)
			return
		}

		logger.Debug("profile picture stored", zap.String("filename", file.Filename))
		c.Set(UploadedFileKey, file)
		c.Next()
	}
}

func rejectUpload(c *gin.Context, logger *zap.Logger, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = libs.ErrFileTooLarge
	}
	msg := err.Error()
	switch {
	case errors.Is(err, libs.ErrNotImage), errors.Is(err, libs.ErrUnexpectedField), errors.Is(err, libs.ErrFileTooLarge):
		logger.Info("upload rejected", zap.String("reason", msg))
	default:
		logger.Error("upload failed", zap.Error(err))
		msg = "Upload failed"
	}
	_ = c.Error(err)
	c.Abort()
	c.String(http.StatusInternalServerError, msg)
}

// UploadedFile returns the file stored by Upload, if any.
func UploadedFile(c *gin.Context) (*models.UploadedFile, bool) {
	v, ok := c.Get(UploadedFileKey)
	if !ok {
		return nil, false
	}
	file, ok := v.(*models.UploadedFile)
	return file, ok
}
