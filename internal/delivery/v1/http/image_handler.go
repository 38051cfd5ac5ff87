package http

import (
	"net/http"

	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
)

type ImageHandler struct {
	imageUsecase usecase.ImageUC
	logger       logger.Logger
}

func NewImageHandler(imageUsecase usecase.ImageUC, logger logger.Logger) *ImageHandler {
	return &ImageHandler{imageUsecase: imageUsecase, logger: logger}
}

// uploadImages
//
//	@Summary		Загрузка изображений товара
//	@Description	До 10 дополнительных файлов, каждый до 15 МБ, jpeg/png/webp
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image			formData	file	false	"Главное изображение"
//	@Param			other_images	formData	file	false	"Дополнительные изображения"
//	@Success		201				{object}	SuccessResponse{data=ImagesDTO}
//	@Failure		400				{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/images [post]
func (h *ImageHandler) uploadImages(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = (maxImageCount + 1) * maxFileSize
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := &usecase.UploadProductImagesReq{}

	mains := r.MultipartForm.File["image"]
	if len(mains) > 1 {
		respondError(w, h.logger, r, e.ErrTooManyImages)
		return
	}
	if len(mains) == 1 {
		main, err := readImage(mains[0])
		if err != nil {
			respondError(w, h.logger, r, err)
			return
		}
		req.Main = main
	}

	others := r.MultipartForm.File["other_images"]
	if len(others) == 0 {
		others = r.MultipartForm.File["other_images[]"]
	}
	images, err := parseImages(others)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	req.Others = images

	res, err := h.imageUsecase.Upload(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, "Images uploaded successfully", ImagesDTO{
		MainImageURL:   res.MainImageURL,
		OtherImageURLs: emptyIfNil(res.OtherImageURLs),
	})
}
