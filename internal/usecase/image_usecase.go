package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-admin/pkg/e"
)

const productImagesFolder = "products"

// ImageUseCase загружает изображения товаров и возвращает их публичные адреса.
type ImageUseCase struct {
	imagesInfra ImagesInfra
}

func NewImageUC(imagesInfra ImagesInfra) *ImageUseCase {
	return &ImageUseCase{imagesInfra: imagesInfra}
}

// Upload загружает главное и дополнительные изображения одним пакетом.
// Порядок дополнительных изображений в ответе совпадает с порядком в запросе.
func (i *ImageUseCase) Upload(ctx context.Context, req *UploadProductImagesReq) (*UploadProductImagesRes, error) {
	const op = "ImageUseCase.Upload"

	images := make([]ProductImage, 0, len(req.Others)+1)
	if req.Main != nil {
		images = append(images, *req.Main)
	}
	images = append(images, req.Others...)

	if len(images) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	uploaded, err := i.imagesInfra.UploadImages(ctx, NewUploadImagesReq(productImagesFolder, images))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	keys := uploaded.ImagesKeys
	res := &UploadProductImagesRes{OtherImageURLs: make([]string, 0, len(req.Others))}
	if req.Main != nil {
		res.MainImageURL = i.imagesInfra.PublicURL(keys[0])
		keys = keys[1:]
	}
	for _, key := range keys {
		res.OtherImageURLs = append(res.OtherImageURLs, i.imagesInfra.PublicURL(key))
	}

	return res, nil
}
