package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/infrastructure"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/jitter"
	"github.com/DRSN-tech/shop-admin/pkg/logger"

	"github.com/google/uuid"
)

const (
	cleanupAttempts   = 3
	cleanupTimeout    = 30 * time.Second
	cleanupBaseDelay  = time.Second
	cleanupMaxBackoff = 8 * time.Second
)

// MinioInfrastructure управляет загрузкой и очисткой изображений в MinIO.
type MinioInfrastructure struct {
	minioRepo         usecase.ImageRepository
	cfg               *cfg.MinIOCfg
	logger            logger.Logger
	shutdownCtx       context.Context
	wg                sync.WaitGroup
	uploadImagesLimit int
	backoffBase       time.Duration
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	limit := cfg.UploadImagesLimit
	if limit <= 0 {
		limit = 1
	}

	return &MinioInfrastructure{
		minioRepo:         minioRepo,
		cfg:               cfg,
		logger:            logger,
		shutdownCtx:       shutdownCtx,
		uploadImagesLimit: limit,
		backoffBase:       cleanupBaseDelay,
	}
}

type uploadedKey struct {
	idx int
	key string
}

// UploadImages загружает изображения в MinIO параллельно с ограничением одновременных операций.
// Ключи возвращаются в порядке запроса. В случае ошибки отменяет остальные загрузки
// и запускает очистку уже загруженных файлов.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	const op = "MinioInfrastructure.UploadImages"
	// Отмена остальных загрузок при первой ошибке
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyCh := make(chan uploadedKey, len(req.Images))
	errCh := make(chan error, len(req.Images))
	sem := make(chan struct{}, m.uploadImagesLimit)

	var uploadWg sync.WaitGroup
	for idx, image := range req.Images {
		uploadWg.Add(1)
		go func() {
			defer uploadWg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
			defer func() { <-sem }()

			ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
			if err != nil {
				errCh <- fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err)
				return
			}

			imageID := uuid.NewString()
			objKey := fmt.Sprintf("%s/%s.%s", req.Folder, imageID, ext)
			newImage := domain.NewImage(imageID, m.cfg.BucketName, objKey, image.Data, image.Size, image.MimeType)

			key, err := m.minioRepo.Upload(ctx, newImage)
			if err != nil {
				errCh <- fmt.Errorf("upload %s failed: %w", image.Name, err)
				return
			}

			keyCh <- uploadedKey{idx: idx, key: key}
		}()
	}

	keys := make([]string, len(req.Images))
	uploaded := make([]string, 0, len(req.Images))
	ok := false
	defer func() {
		if ok {
			return
		}
		// Загрузки, завершившиеся после отмены, тоже нужно удалить.
		m.wg.Add(1)
		go func() {
			uploadWg.Wait()
			close(keyCh)
			for k := range keyCh {
				uploaded = append(uploaded, k.key)
			}
			if len(uploaded) == 0 {
				m.wg.Done()
				return
			}
			m.cleanupUploadedKeys(uploaded)
		}()
	}()

	for completed := 0; completed < len(req.Images); {
		select {
		case k := <-keyCh:
			keys[k.idx] = k.key
			uploaded = append(uploaded, k.key)
			completed++
		case err := <-errCh:
			cancel()
			return nil, e.Wrap(op, err)
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	ok = true
	return usecase.NewUploadImagesRes(keys), nil
}

// PublicURL возвращает адрес, по которому объект доступен клиентам.
func (m *MinioInfrastructure) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.cfg.PublicURL, m.cfg.BucketName, key)
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded keys", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.minioRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if ctx.Err() != nil {
				m.logger.Warnf("%s: cleanup interrupted by shutdown, key=%s", op, key)
				return
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: giving up on key=%s", op, key)
				break
			}

			select {
			case <-time.After(jitter.ExponentialBackoff(m.backoffBase, cleanupMaxBackoff, attempt, jitter.DefaultJitter)):
			case <-ctx.Done():
				m.logger.Warnf("%s: cleanup interrupted by shutdown during backoff, key=%s", op, key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
