package usecase

import "github.com/DRSN-tech/shop-admin/internal/domain"

// CATEGORY USECASE

// CreateCategoryReq описывает создание категории.
// ParentFor принимается для совместимости с клиентом и не сохраняется.
type CreateCategoryReq struct {
	Name        string
	Description *string
	Parent      *int64
	ParentFor   *int64
	Properties  []domain.Property
}

// UpdateCategoryReq описывает изменение категории. UsedCount и ParentFor не меняются.
type UpdateCategoryReq struct {
	ID          int64
	Name        string
	Description *string
	Parent      *int64
	Properties  []domain.Property
}

// PRODUCT USECASE

// ProductReq содержит данные продукта для создания и изменения. Цены в центах.
type ProductReq struct {
	Title         string `validate:"required"`
	Description   string
	UnitCount     int64 `validate:"gte=0"`
	Price         int64 `validate:"gt=0"`
	DiscountPrice int64 `validate:"gte=0"`
	IsInDiscount  bool
	ProductType   string
	Quantity      int64 `validate:"gte=0"`
	IsUnlimited   bool
	Categories    []int64
	Tags          []string
	Image         string
	OtherImages   []string
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// UploadProductImagesReq — главное изображение (может отсутствовать) и дополнительные.
type UploadProductImagesReq struct {
	Main   *ProductImage
	Others []ProductImage
}

type UploadProductImagesRes struct {
	MainImageURL   string
	OtherImageURLs []string
}

// USER / SETTINGS USECASE

type SetRoleReq struct {
	Email string `validate:"required"`
	Role  string `validate:"required,oneof=admin sub-admin User"`
}

type UpdateSettingsReq struct {
	Name string `validate:"required"`
	Icon string `validate:"required"`
}

// INFRASTUCTURE

// UploadImagesReq загружает изображения в папку Folder.
type UploadImagesReq struct {
	Folder string
	Images []ProductImage
}

// UploadImagesRes содержит ключи загруженных объектов в порядке запроса.
type UploadImagesRes struct {
	ImagesKeys []string
}

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// MAPPERS

func NewUploadImagesReq(folder string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Folder: folder,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}
