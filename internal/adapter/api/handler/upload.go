package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/labstack/echo/v4"

	"medconnect/internal/infrastructure/storage"
	"medconnect/pkg/errors"
	"medconnect/pkg/logger"
)

type imageUpload func(ctx context.Context, uid string, r io.Reader, contentType string) (string, error)

// formImage opens an image part of a multipart form.
func formImage(c echo.Context, field string) (multipart.File, string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		logger.Error("Error getting file from form: %v", err)
		return nil, "", errors.BadRequest("Missing or invalid file", err)
	}
	return openImage(file)
}

func openImage(file *multipart.FileHeader) (multipart.File, string, error) {
	if file.Size > maxImageSize {
		logger.Warn("File too large: %d bytes (max: %d)", file.Size, maxImageSize)
		return nil, "", errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", maxImageSize/(1024*1024)), nil)
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", errors.BadRequest("Only image files are accepted", nil)
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", errors.Unknown("Failed to open uploaded file", err)
	}
	return src, contentType, nil
}

// formImages opens every file under field. The returned closer releases all of
// them.
func formImages(c echo.Context, field string) ([]storage.Upload, func(), error) {
	closeAll := func() {}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, closeAll, nil
	}

	var (
		uploads []storage.Upload
		opened  []multipart.File
	)
	closeAll = func() {
		for _, f := range opened {
			f.Close()
		}
	}
	for _, file := range form.File[field] {
		src, contentType, err := openImage(file)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, src)
		uploads = append(uploads, storage.Upload{Reader: src, ContentType: contentType})
	}
	return uploads, closeAll, nil
}
