package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"medconnect/pkg/errors"
	"medconnect/pkg/response"
)

// MediaDownloader serves stored images, usually out of the local file cache.
type MediaDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

type MediaHandler struct {
	downloader MediaDownloader
}

var mediaHandler *MediaHandler

func NewMediaHandler(downloader MediaDownloader) *MediaHandler {
	return &MediaHandler{
		downloader: downloader,
	}
}

func SetupMediaHandler(downloader MediaDownloader) {
	mediaHandler = NewMediaHandler(downloader)
}

func GetMediaHandler() *MediaHandler {
	return mediaHandler
}

// Get proxies ?url= through the cache.
func (h *MediaHandler) Get(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return response.Error(c, errors.BadRequest("url is required", nil))
	}

	data, err := h.downloader.Download(c.Request().Context(), url)
	if err != nil {
		return response.Error(c, err)
	}

	c.Response().Header().Set("Cache-Control", "private, max-age=86400")
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}
