package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"user-account/libs"
	"user-account/models"
	"user-account/validation"
)

const SubmissionKey = "submission"

// Validate checks the body against rules. Failures end the request with the
// 400 envelope and drop any picture Upload already stored in files; on success
// the sanitised submission is stored under SubmissionKey.
func Validate(v *validation.Validator, rules validation.Ruleset, files libs.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, err := requestValues(c)
		if err != nil {
			discardUpload(c, files)
			c.AbortWithStatusJSON(http.StatusOK, models.Failure(http.StatusBadRequest, "Invalid request body"))
			return
		}

		if errs := v.Check(rules, values); len(errs) > 0 {
			discardUpload(c, files)
			c.AbortWithStatusJSON(http.StatusOK, models.Envelope{
				Error:      errs,
				Success:    false,
				StatusCode: http.StatusBadRequest,
			})
			return
		}

		c.Set(SubmissionKey, validation.Submission(values))
		c.Next()
	}
}

func discardUpload(c *gin.Context, files libs.FileStore) {
	file, ok := UploadedFile(c)
	if !ok || files == nil {
		return
	}
	if err := files.Remove(c.Request.Context(), file.Filename); err != nil {
		_ = c.Error(err)
	}
}

// Submission returns the payload stored by Validate.
func Submission(c *gin.Context) models.Submission {
	v, _ := c.Get(SubmissionKey)
	sub, _ := v.(models.Submission)
	return sub
}

// requestValues collects body fields from a form or a flat JSON object.
func requestValues(c *gin.Context) (url.Values, error) {
	switch c.ContentType() {
	case gin.MIMEJSON:
		var body map[string]interface{}
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		values := url.Values{}
		for k, v := range body {
			switch val := v.(type) {
			case nil:
			case string:
				values.Set(k, val)
			default:
				values.Set(k, fmt.Sprint(val))
			}
		}
		return values, nil
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			return nil, err
		}
		return cloneValues(c.Request.PostForm), nil
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		return cloneValues(c.Request.PostForm), nil
	}
}

func cloneValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
