package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const imageCacheControl = "public, max-age=31536000, immutable"

// ImageRepo реализует репозиторий изображений поверх MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает изображение в бакет image.Bucket (или бакет из конфигурации) и возвращает ключ объекта.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	bucket := image.Bucket
	if bucket == "" {
		bucket = i.cfg.BucketName
	}

	opts := minio.PutObjectOptions{
		ContentType:  image.MimeType,
		CacheControl: imageCacheControl,
		UserMetadata: map[string]string{"image-id": image.ID},
	}

	info, err := i.mc.PutObject(ctx, bucket, image.ObjectKey, bytes.NewReader(image.Bytes), image.Length(), opts)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.mc.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
