package infrastructure

import "github.com/DRSN-tech/shop-admin/pkg/e"

// imageExtensions — принимаемые MIME-типы изображений и расширения их объектов.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// GetExtensionFromMIME возвращает расширение файла по MIME-типу изображения
// или e.ErrUnsupportedMediaType, если такие изображения не принимаются.
func GetExtensionFromMIME(mime string) (string, error) {
	ext, ok := imageExtensions[mime]
	if !ok {
		return "bin", e.ErrUnsupportedMediaType
	}
	return ext, nil
}

// IsSupportedImage сообщает, принимается ли изображение с таким MIME-типом.
func IsSupportedImage(mime string) bool {
	_, ok := imageExtensions[mime]
	return ok
}
