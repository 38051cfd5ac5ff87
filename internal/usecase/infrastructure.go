package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-admin/internal/domain"
)

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
	PublicURL(key string) string
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// IdentityVerifier проверяет ID-токен внешнего провайдера идентификации.
type IdentityVerifier interface {
	Verify(token string) (*domain.Identity, error)
}
