package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"medconnect/internal/domain/entity"
	"medconnect/internal/infrastructure/cache"
	"medconnect/pkg/errors"
	"medconnect/pkg/logger"
)

// Gateway names objects {entity}/{id}/images/{uuid}{ext} and serves
// downloads through the local file cache.
type Gateway struct {
	store BlobStore
	files *cache.FileCache
}

func NewGateway(store BlobStore, files *cache.FileCache) *Gateway {
	return &Gateway{
		store: store,
		files: files,
	}
}

func ImagePath(kind entity.ImageKind, id, contentType string) string {
	return fmt.Sprintf("%s/%s/images/%s%s", kind.Folder(), id, uuid.New().String(), extension(contentType))
}

func (g *Gateway) UploadImage(ctx context.Context, kind entity.ImageKind, id string, r io.Reader, contentType string) (string, error) {
	if kind.Folder() == "" {
		return "", errors.BadRequest("Unsupported image kind", nil)
	}

	url, err := g.store.Put(ctx, ImagePath(kind, id, contentType), r, contentType)
	if err != nil {
		return "", errors.Unknown("Failed to upload image", err)
	}
	return url, nil
}

// UploadImages uploads sequentially and returns urls in input order.
func (g *Gateway) UploadImages(ctx context.Context, kind entity.ImageKind, id string, files []Upload) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := g.UploadImage(ctx, kind, id, f.Reader, f.ContentType)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (g *Gateway) Download(ctx context.Context, url string) ([]byte, error) {
	if g.files != nil {
		if data, ok := g.files.Get(url); ok {
			return data, nil
		}
	}

	rc, err := g.store.Open(ctx, url)
	if err != nil {
		return nil, errors.NotFound("File", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Unknown("Failed to read file", err)
	}

	if g.files != nil {
		if err := g.files.Put(url, data); err != nil {
			logger.Warn("Failed to cache %s: %v", url, err)
		}
	}
	return data, nil
}

func (g *Gateway) Delete(ctx context.Context, url string) error {
	if err := g.store.Delete(ctx, url); err != nil {
		return errors.Unknown("Failed to delete file", err)
	}
	if g.files != nil {
		g.files.Remove(url)
	}
	return nil
}

type Upload struct {
	Reader      io.Reader
	ContentType string
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	}
	return ".bin"
}
